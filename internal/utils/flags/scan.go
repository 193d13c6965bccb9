package flags

import (
	"time"

	"github.com/spf13/cobra"
)

const (
	// ParameterFlagName is the repeatable key=value scan parameter flag.
	ParameterFlagName = "param"
	// ParameterFlagShorthand is the shorthand for ParameterFlagName.
	ParameterFlagShorthand = "p"
	// ParameterFlagUsage describes ParameterFlagName.
	ParameterFlagUsage = "Tool parameter as key=value (repeatable)"
	// ParametersFileFlagName names the YAML parameter file flag.
	ParametersFileFlagName = "params-file"
	// ParametersFileFlagUsage describes ParametersFileFlagName.
	ParametersFileFlagUsage = "YAML file with tool parameters; --param values override it"
	// ExtraArgumentsFlagName names the free-form extra argument flag.
	ExtraArgumentsFlagName = "extra"
	// ExtraArgumentsFlagUsage describes ExtraArgumentsFlagName.
	ExtraArgumentsFlagUsage = "Additional tool arguments, split with shell quoting rules"
	// GracePeriodFlagName names the termination grace period flag.
	GracePeriodFlagName = "grace-period"
	// GracePeriodFlagUsage describes GracePeriodFlagName.
	GracePeriodFlagUsage = "Time a cancelled tool gets to exit before it is killed"
	// KillWaitFlagName names the post-kill wait flag.
	KillWaitFlagName = "kill-wait"
	// KillWaitFlagUsage describes KillWaitFlagName.
	KillWaitFlagUsage = "Time to wait for a killed tool to be reaped"
	// MetricsAddressFlagName names the Prometheus listen address flag.
	MetricsAddressFlagName = "metrics-address"
	// MetricsAddressFlagUsage describes MetricsAddressFlagName.
	MetricsAddressFlagUsage = "Serve Prometheus metrics on this address while the scan runs (disabled when empty)"
)

// ParameterFlagValues stores the parameter sources given on the command line.
type ParameterFlagValues struct {
	Assignments    []string
	ParametersFile string
	ExtraArguments string
}

// BindParameterFlags attaches --param, --params-file and --extra to command.
func BindParameterFlags(command *cobra.Command) *ParameterFlagValues {
	values := &ParameterFlagValues{}
	if command == nil {
		return values
	}
	flagSet := command.Flags()
	flagSet.StringArrayVarP(&values.Assignments, ParameterFlagName, ParameterFlagShorthand, nil, ParameterFlagUsage)
	flagSet.StringVar(&values.ParametersFile, ParametersFileFlagName, "", ParametersFileFlagUsage)
	flagSet.StringVar(&values.ExtraArguments, ExtraArgumentsFlagName, "", ExtraArgumentsFlagUsage)
	return values
}

// RunnerFlagValues stores process runner overrides.
type RunnerFlagValues struct {
	GracePeriod    time.Duration
	KillWait       time.Duration
	MetricsAddress string
}

// BindRunnerFlags attaches runner override flags. Configuration values apply
// unless a flag was changed, which callers check with Changed.
func BindRunnerFlags(command *cobra.Command, defaults RunnerFlagValues) *RunnerFlagValues {
	values := defaults
	if command == nil {
		return &values
	}
	flagSet := command.Flags()
	flagSet.DurationVar(&values.GracePeriod, GracePeriodFlagName, defaults.GracePeriod, GracePeriodFlagUsage)
	flagSet.DurationVar(&values.KillWait, KillWaitFlagName, defaults.KillWait, KillWaitFlagUsage)
	flagSet.StringVar(&values.MetricsAddress, MetricsAddressFlagName, defaults.MetricsAddress, MetricsAddressFlagUsage)
	return &values
}

// Changed reports whether the named flag was set on command.
func Changed(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}
	return command.Flags().Changed(flagName)
}
