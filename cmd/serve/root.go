package serve

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cmdUtil "github.com/ValentinKolb/wordkv/cmd/util"
	"github.com/ValentinKolb/wordkv/lib/dictionary"
	"github.com/ValentinKolb/wordkv/rpc/common"
	"github.com/ValentinKolb/wordkv/rpc/serializer"
	"github.com/ValentinKolb/wordkv/rpc/server"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:   "serve <port> <pool-size> <dictionary-file>",
		Short: "Start the dictionary server",
		Long: `Start the dictionary server on the given port with a fixed number of workers.
Each worker serves one client connection at a time, further clients wait in a queue.
Flags can also be set via environment variables in the format WORDKV_<flag> (e.g. WORDKV_LOG_LEVEL=debug)`,
		Args:    cobra.ExactArgs(3),
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(cmdUtil.InitConfig)

	// add flags
	key := "persist"
	ServeCmd.Flags().String(key, string(common.PersistOnMutation), cmdUtil.WrapString("When to rewrite the dictionary file: 'mutation' (after every successful change) or 'always' (after every command, including lookups)"))

	key = "admin-endpoint"
	ServeCmd.Flags().String(key, "", cmdUtil.WrapString("Address of the admin HTTP api with /health, /status, /events and /metrics (e.g. 127.0.0.1:9090). Empty disables the api"))

	key = "stats-interval"
	ServeCmd.Flags().Int(key, 0, cmdUtil.WrapString("Interval in seconds for logging connection and command statistics (0 disables the stats log)"))

	key = "log-level"
	ServeCmd.Flags().String(key, "info", cmdUtil.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))

	cmdUtil.SetupTCPFlags(ServeCmd)
}

// processConfig converts the arguments, flags and environment variables to the server configuration
func processConfig(cmd *cobra.Command, args []string) error {
	// bind the flags to viper
	if err := cmdUtil.BindCommandFlags(cmd); err != nil {
		return err
	}

	config, err := buildConfig(args)
	if err != nil {
		return err
	}
	*serveCmdConfig = *config
	return nil
}

// buildConfig creates the server configuration from the positional arguments and viper
func buildConfig(args []string) (*common.ServerConfig, error) {
	port, err := cmdUtil.ParsePort(args[0])
	if err != nil {
		return nil, err
	}

	poolSize, err := strconv.Atoi(strings.TrimSpace(args[1]))
	if err != nil {
		return nil, fmt.Errorf("pool size must be a number, got %q", args[1])
	}

	persistMode, err := common.ParsePersistMode(viper.GetString("persist"))
	if err != nil {
		return nil, err
	}

	config := &common.ServerConfig{
		Endpoint:            common.EndpointForPort(port),
		PoolSize:            poolSize,
		DictionaryFile:      args[2],
		PersistMode:         persistMode,
		AdminEndpoint:       viper.GetString("admin-endpoint"),
		StatsIntervalSecond: viper.GetInt("stats-interval"),
		TCP:                 cmdUtil.GetTCPConf(),
		LogLevel:            viper.GetString("log-level"),
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// run loads the dictionary and serves it until SIGINT or SIGTERM
func run(_ *cobra.Command, _ []string) error {
	if err := common.InitLoggers(serveCmdConfig.LogLevel); err != nil {
		return err
	}

	dict, err := dictionary.Open(serveCmdConfig.DictionaryFile)
	if err != nil {
		return fmt.Errorf("failed to load dictionary: %w", err)
	}

	serv, err := server.NewServer(*serveCmdConfig, dict, serializer.NewJSONSerializer(), server.LoggerSink{})
	if err != nil {
		return err
	}
	if err := serv.Listen(); err != nil {
		return err
	}

	// stop on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		server.Logger.Infof("received %v, shutting down", sig)
		_ = serv.Close()
	}()

	return serv.Serve()
}
