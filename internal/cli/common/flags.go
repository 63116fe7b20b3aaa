package common

import (
	"strconv"

	"github.com/crmarques/jbossctl/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type GlobalFlags struct {
	Context       string
	Host          string
	Port          int
	Scheme        string
	Timeout       string
	Username      string
	Password      string
	PasswordStdin bool
	AskPassword   bool
	AuthMode      string
	Check         bool
	Debug         bool
	Verbose       bool
	NoStatus      bool
	NoColor       bool
	Output        string
	MetricsFile   string
}

type InputFlags struct {
	Payload string
	Format  string
}

func BindGlobalFlags(command *cobra.Command, flags *GlobalFlags) {
	persistent := command.PersistentFlags()
	persistent.StringVarP(&flags.Context, "context", "c", "", "context name")
	persistent.StringVar(&flags.Host, "host", "", "management host (default "+config.DefaultHost+")")
	persistent.IntVar(&flags.Port, "port", 0, "management port (default "+strconv.Itoa(config.DefaultPort)+")")
	persistent.StringVar(&flags.Scheme, "scheme", "", "management scheme: http|https")
	persistent.StringVar(&flags.Timeout, "timeout", "", "request timeout, 0 disables it (default "+config.DefaultTimeout+")")
	persistent.StringVarP(&flags.Username, "username", "u", "", "management user")
	persistent.StringVar(&flags.Password, "password", "", "management password")
	persistent.BoolVar(&flags.PasswordStdin, "password-stdin", false, "read the management password from stdin")
	persistent.BoolVar(&flags.AskPassword, "ask-password", false, "prompt for the management password")
	persistent.StringVar(&flags.AuthMode, "auth", "", "authentication mode: digest|basic")
	persistent.BoolVar(&flags.Check, "check", false, "report changes without applying them")
	persistent.BoolVarP(&flags.Debug, "debug", "d", false, "enable debug output")
	persistent.BoolVarP(&flags.Verbose, "verbose", "v", false, "log reconciliation decisions")
	persistent.BoolVarP(&flags.NoStatus, "no-status", "n", false, "hide status output")
	persistent.BoolVar(&flags.NoColor, "no-color", false, "disable color output")
	persistent.StringVarP(&flags.Output, "output", "o", OutputAuto, "output format: auto|text|json|yaml")
	persistent.StringVar(&flags.MetricsFile, "metrics-file", "", "write request metrics in textfile format to this path")
}

func IsVerbose(flags *GlobalFlags) bool {
	return flags != nil && flags.Verbose
}

func BindInputFlags(command *cobra.Command, flags *InputFlags, name string, usage string) {
	command.Flags().StringVarP(&flags.Payload, name, "f", "", usage+" (use '-' to read from stdin)")
	command.Flags().StringVarP(&flags.Format, "format", "i", OutputYAML, "input format: json|yaml")
}

// BindTargetFlag registers --path with the --name alias accepted by the
// resource commands.
func BindTargetFlag(command *cobra.Command, target *string, name string, usage string) {
	command.Flags().StringVarP(target, name, "p", "", usage)
	command.Flags().SetNormalizeFunc(normalizeTargetAlias(name))
}

func normalizeTargetAlias(name string) func(*pflag.FlagSet, string) pflag.NormalizedName {
	return func(_ *pflag.FlagSet, flagName string) pflag.NormalizedName {
		if name == "path" && flagName == "name" {
			return pflag.NormalizedName("path")
		}
		return pflag.NormalizedName(flagName)
	}
}
