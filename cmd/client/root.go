package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cmdUtil "github.com/ValentinKolb/wordkv/cmd/util"
	"github.com/ValentinKolb/wordkv/rpc/client"
	"github.com/ValentinKolb/wordkv/rpc/common"
	"github.com/ValentinKolb/wordkv/rpc/serializer"
)

var (
	// ClientCmd connects to a dictionary server
	ClientCmd = &cobra.Command{
		Use:   "client <host> <port> [command [word] [fields...]]",
		Short: "Query and modify the dictionary of a server",
		Long: `Connect to a dictionary server. If a command is given, it is sent once and its
output is printed. Otherwise an interactive prompt is started.

` + usage + `

In one-shot mode the fields are passed as separate arguments, e.g.
  wordkv client localhost 3000 update kiwi "fruit" "green fruit"`,
		Args: cobra.MinimumNArgs(2),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return cmdUtil.BindCommandFlags(cmd)
		},
		RunE: run,
	}
)

func init() {
	cobra.OnInitialize(cmdUtil.InitConfig)

	key := "dial-timeout"
	ClientCmd.Flags().Int(key, 10, cmdUtil.WrapString("Timeout in seconds for establishing the connection. There is no timeout while waiting for a free worker"))

	key = "no-color"
	ClientCmd.Flags().Bool(key, false, cmdUtil.WrapString("Disable colored output"))

	key = "log-level"
	ClientCmd.Flags().String(key, "warn", cmdUtil.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))

	cmdUtil.SetupTCPFlags(ClientCmd)
}

func run(cmd *cobra.Command, args []string) error {
	if err := common.InitLoggers(viper.GetString("log-level")); err != nil {
		return err
	}

	port, err := cmdUtil.ParsePort(args[1])
	if err != nil {
		return err
	}
	config := common.ClientConfig{
		Host:              args[0],
		Port:              port,
		DialTimeoutSecond: viper.GetInt("dial-timeout"),
		TCP:               cmdUtil.GetTCPConf(),
	}

	// validate a one-shot command before connecting
	var oneShot *common.Request
	if len(args) > 2 {
		if oneShot, err = buildRequest(args[2], args[3:]); err != nil {
			return err
		}
	}

	output, status := consoleSinks(cmd.OutOrStdout(), cmd.ErrOrStderr(), !viper.GetBool("no-color"))

	// cancel the wait for a worker on ctrl-c
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := client.Connect(ctx, config, serializer.NewJSONSerializer(), output, status)
	if err != nil {
		return err
	}
	defer c.Close()

	if oneShot != nil {
		_, err := c.Call(oneShot)
		return err
	}
	return prompt(c, cmd.InOrStdin(), cmd.OutOrStdout(), output)
}

// prompt reads commands line by line until quit, end of input or disconnect
func prompt(c *client.Client, in io.Reader, out io.Writer, output client.OutputSink) error {
	scanner := bufio.NewScanner(in)
	for {
		_, _ = fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			_, _ = fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "quit", "exit":
			return nil
		case "help":
			_, _ = fmt.Fprintln(out, usage)
			continue
		}

		req, err := parseLine(line)
		if err != nil {
			output.Output(err.Error(), client.SeverityError)
			continue
		}
		if _, err := c.Call(req); err != nil {
			return err
		}
	}
}

// consoleSinks creates the sinks for output (stdout) and status (stderr).
// Colors are used only for terminals.
func consoleSinks(stdout, stderr io.Writer, colors bool) (client.OutputSink, client.StatusSink) {
	return newSink(stdout, colors), newSink(stderr, colors)
}

func newSink(w io.Writer, colors bool) *client.ConsoleSink {
	if f, ok := w.(*os.File); ok && colors {
		return client.NewConsoleSink(f)
	}
	return client.NewWriterSink(w, false)
}
