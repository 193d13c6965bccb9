package scan

import (
	"strings"
	"time"

	"github.com/temirov/redboar/internal/execshell"
	"github.com/temirov/redboar/internal/resolver"
	"github.com/temirov/redboar/internal/ui"
	pathutils "github.com/temirov/redboar/internal/utils/path"
)

const (
	defaultPollIntervalConstant   = 50 * time.Millisecond
	runnerGracePeriodKeyConstant  = ".grace_period"
	runnerKillWaitKeyConstant     = ".kill_wait"
	runnerPollIntervalKeyConstant = ".poll_interval"
	runnerEventBufferKeyConstant  = ".event_buffer"
	runnerMetricsKeyConstant      = ".metrics_address"
)

// RunnerConfiguration tunes process supervision and the drain loop.
type RunnerConfiguration struct {
	GracePeriod    time.Duration `mapstructure:"grace_period"`
	KillWait       time.Duration `mapstructure:"kill_wait"`
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	EventBuffer    int           `mapstructure:"event_buffer"`
	MetricsAddress string        `mapstructure:"metrics_address"`
}

// Configuration captures everything the scan commands read from configuration.
type Configuration struct {
	ColorMode string
	Runner    RunnerConfiguration
	Tools     []resolver.ToolSpec
}

// DefaultRunnerConfiguration mirrors the process runner defaults.
func DefaultRunnerConfiguration() RunnerConfiguration {
	return RunnerConfiguration{
		GracePeriod:  execshell.DefaultGracePeriod,
		KillWait:     execshell.DefaultKillWait,
		PollInterval: defaultPollIntervalConstant,
		EventBuffer:  execshell.DefaultEventBufferSize,
	}
}

// DefaultConfiguration returns the built-in tool table with default runner settings.
func DefaultConfiguration() Configuration {
	return Configuration{
		ColorMode: string(ui.ColorModeAuto),
		Runner:    DefaultRunnerConfiguration(),
		Tools:     resolver.DefaultToolSpecs(),
	}
}

// DefaultRunnerConfigurationValues returns viper defaults for the runner section rooted at prefix.
func DefaultRunnerConfigurationValues(prefix string) map[string]any {
	defaults := DefaultRunnerConfiguration()
	return map[string]any{
		prefix + runnerGracePeriodKeyConstant:  defaults.GracePeriod.String(),
		prefix + runnerKillWaitKeyConstant:     defaults.KillWait.String(),
		prefix + runnerPollIntervalKeyConstant: defaults.PollInterval.String(),
		prefix + runnerEventBufferKeyConstant:  defaults.EventBuffer,
		prefix + runnerMetricsKeyConstant:      defaults.MetricsAddress,
	}
}

// Sanitize fills unset runner values and drops tool entries without a name.
// Candidate paths starting with ~ are expanded against the home directory.
func (configuration Configuration) Sanitize(expander *pathutils.HomeExpander) Configuration {
	sanitized := configuration
	defaults := DefaultRunnerConfiguration()
	if sanitized.Runner.GracePeriod <= 0 {
		sanitized.Runner.GracePeriod = defaults.GracePeriod
	}
	if sanitized.Runner.KillWait <= 0 {
		sanitized.Runner.KillWait = defaults.KillWait
	}
	if sanitized.Runner.PollInterval <= 0 {
		sanitized.Runner.PollInterval = defaults.PollInterval
	}
	if sanitized.Runner.EventBuffer <= 0 {
		sanitized.Runner.EventBuffer = defaults.EventBuffer
	}
	sanitized.Runner.MetricsAddress = strings.TrimSpace(sanitized.Runner.MetricsAddress)
	if len(strings.TrimSpace(sanitized.ColorMode)) == 0 {
		sanitized.ColorMode = string(ui.ColorModeAuto)
	}

	if expander == nil {
		expander = pathutils.NewHomeExpander()
	}
	sanitizedTools := make([]resolver.ToolSpec, 0, len(configuration.Tools))
	for _, specification := range configuration.Tools {
		specification.Name = strings.TrimSpace(specification.Name)
		if len(specification.Name) == 0 {
			continue
		}
		specification.Candidates = expander.ExpandAll(specification.Candidates)
		sanitizedTools = append(sanitizedTools, specification)
	}
	if len(sanitizedTools) == 0 {
		sanitizedTools = resolver.DefaultToolSpecs()
	}
	sanitized.Tools = sanitizedTools
	return sanitized
}

func (configuration RunnerConfiguration) runnerOptions() execshell.RunnerOptions {
	return execshell.RunnerOptions{
		GracePeriod:     configuration.GracePeriod,
		KillWait:        configuration.KillWait,
		EventBufferSize: configuration.EventBuffer,
	}
}
