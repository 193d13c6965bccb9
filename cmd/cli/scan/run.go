package scan

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/redboar/internal/execshell"
	"github.com/temirov/redboar/internal/metrics"
	"github.com/temirov/redboar/internal/orchestrator"
	"github.com/temirov/redboar/internal/ui"
	flagutils "github.com/temirov/redboar/internal/utils/flags"
)

const (
	runCommandUseConstant                = "run <tool>"
	runCommandShortDescriptionConstant   = "Run one scan and stream its classified output"
	runCommandLongDescriptionConstant    = "run validates parameters, resolves the tool, starts it and streams colour-coded output until the tool exits. Interrupting the command stops the tool with escalating signals."
	metricsServerErrorTemplateConstant   = "unable to start metrics server: %w"
	metricsCreationErrorTemplateConstant = "unable to create run metrics: %w"
	colorModeErrorTemplateConstant       = "invalid color configuration: %w"
	metricsShutdownTimeoutConstant       = 5 * time.Second
	metricsServingMessageConstant        = "serving metrics"
	metricsShutdownFailedMessageConstant = "metrics server shutdown failed"
	interruptReceivedMessageConstant     = "interrupt received, stopping run"
	logFieldMetricsURLConstant           = "url"
	logFieldRunIdentifierConstant        = "run_id"
)

// RunFailedError reports a run that did not finish with exit status zero.
type RunFailedError struct {
	Status orchestrator.RunStatus
}

// Error describes the terminal outcome of the run.
func (runFailedError RunFailedError) Error() string {
	label := runFailedError.Status.DisplayName
	if len(label) == 0 {
		label = runFailedError.Status.ToolName
	}
	switch runFailedError.Status.Outcome {
	case execshell.TerminalKindCompleted:
		return fmt.Sprintf("%s exited with code %d", label, runFailedError.Status.ExitCode)
	case execshell.TerminalKindCancelled:
		return fmt.Sprintf("%s was stopped before completion", label)
	default:
		if runFailedError.Status.Err != nil {
			return fmt.Sprintf("%s failed: %v", label, runFailedError.Status.Err)
		}
		return fmt.Sprintf("%s failed: %s", label, runFailedError.Status.Outcome)
	}
}

// Unwrap exposes the underlying run error.
func (runFailedError RunFailedError) Unwrap() error {
	return runFailedError.Status.Err
}

// RunCommandBuilder assembles the run command.
type RunCommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConsoleLoggerProvider LoggerProvider
	ConfigurationProvider ConfigurationProvider
	Dependencies          Dependencies
	// InterruptSignals overrides the signals that stop the active run.
	InterruptSignals []os.Signal
}

// Build constructs the run command.
func (builder *RunCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   runCommandUseConstant,
		Short: runCommandShortDescriptionConstant,
		Long:  runCommandLongDescriptionConstant,
		Args:  cobra.ExactArgs(1),
	}

	parameterValues := flagutils.BindParameterFlags(command)
	runnerDefaults := DefaultRunnerConfiguration()
	runnerValues := flagutils.BindRunnerFlags(command, flagutils.RunnerFlagValues{
		GracePeriod: runnerDefaults.GracePeriod,
		KillWait:    runnerDefaults.KillWait,
	})

	command.RunE = func(command *cobra.Command, arguments []string) error {
		return builder.run(command, arguments, parameterValues, runnerValues)
	}
	return command, nil
}

func (builder *RunCommandBuilder) run(command *cobra.Command, arguments []string, parameterValues *flagutils.ParameterFlagValues, runnerValues *flagutils.RunnerFlagValues) error {
	toolName, nameError := toolNameFromArguments(arguments)
	if nameError != nil {
		return nameError
	}

	logger := resolveLogger(builder.LoggerProvider)
	consoleLogger := resolveLogger(builder.ConsoleLoggerProvider)
	expander := builder.Dependencies.homeExpander()
	configuration := resolveConfiguration(builder.ConfigurationProvider, expander)
	runnerConfiguration := applyRunnerOverrides(command, configuration.Runner, runnerValues)

	parameters, parametersError := CollectParameters(parameterValues, expander)
	if parametersError != nil {
		return parametersError
	}

	colorMode, colorModeError := ui.ParseColorMode(configuration.ColorMode)
	if colorModeError != nil {
		return fmt.Errorf(colorModeErrorTemplateConstant, colorModeError)
	}

	runMetrics, metricsError := metrics.NewRunMetrics()
	if metricsError != nil {
		return fmt.Errorf(metricsCreationErrorTemplateConstant, metricsError)
	}
	if len(runnerConfiguration.MetricsAddress) > 0 {
		metricsServer, serverError := metrics.StartServer(runnerConfiguration.MetricsAddress, runMetrics, logger)
		if serverError != nil {
			return fmt.Errorf(metricsServerErrorTemplateConstant, serverError)
		}
		logger.Info(metricsServingMessageConstant, zap.String(logFieldMetricsURLConstant, metricsServer.URL()))
		defer func() {
			shutdownContext, cancelShutdown := context.WithTimeout(context.Background(), metricsShutdownTimeoutConstant)
			defer cancelShutdown()
			if shutdownError := metricsServer.Shutdown(shutdownContext); shutdownError != nil {
				logger.Warn(metricsShutdownFailedMessageConstant, zap.Error(shutdownError))
			}
		}()
	}

	controller, controllerError := orchestrator.NewController(orchestrator.ControllerDependencies{
		Registry: builder.Dependencies.newRegistry(),
		Resolver: builder.Dependencies.newResolver(configuration.Tools, logger),
		Runner:   execshell.NewProcessRunner(logger, runnerConfiguration.runnerOptions()),
		Logger:   logger,
		Observer: orchestrator.MultiObserver{
			ui.NewOutputRenderer(command.OutOrStdout(), colorMode),
			ui.NewConsoleRunEventLogger(consoleLogger),
			runMetrics,
		},
	})
	if controllerError != nil {
		return fmt.Errorf(controllerCreationErrorTemplateConstant, controllerError)
	}

	executionContext := command.Context()
	if executionContext == nil {
		executionContext = context.Background()
	}
	interruptContext, stopInterrupts := signal.NotifyContext(executionContext, builder.interruptSignals()...)
	defer stopInterrupts()

	runIdentifier, startError := controller.Start(executionContext, orchestrator.StartRequest{
		ToolName:       toolName,
		Parameters:     parameters,
		ExtraArguments: parameterValues.ExtraArguments,
	})
	if startError != nil {
		return startError
	}

	awaitRun(controller, runIdentifier, interruptContext.Done(), runnerConfiguration.PollInterval, logger)

	status, _ := controller.LastStatus()
	if !status.Succeeded() {
		return RunFailedError{Status: status}
	}
	return nil
}

// awaitRun drains the controller until it returns to idle. The first
// interrupt cancels the run; later ones are ignored while it winds down.
func awaitRun(controller *orchestrator.Controller, runIdentifier orchestrator.RunID, interrupts <-chan struct{}, pollInterval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		controller.Drain(0)
		if controller.State() == orchestrator.StateIdle {
			return
		}
		select {
		case <-interrupts:
			logger.Info(interruptReceivedMessageConstant, zap.String(logFieldRunIdentifierConstant, string(runIdentifier)))
			controller.Cancel(runIdentifier)
			interrupts = nil
		case <-ticker.C:
		}
	}
}

func applyRunnerOverrides(command *cobra.Command, configured RunnerConfiguration, runnerValues *flagutils.RunnerFlagValues) RunnerConfiguration {
	effective := configured
	if runnerValues == nil {
		return effective
	}
	if flagutils.Changed(command, flagutils.GracePeriodFlagName) && runnerValues.GracePeriod > 0 {
		effective.GracePeriod = runnerValues.GracePeriod
	}
	if flagutils.Changed(command, flagutils.KillWaitFlagName) && runnerValues.KillWait > 0 {
		effective.KillWait = runnerValues.KillWait
	}
	if flagutils.Changed(command, flagutils.MetricsAddressFlagName) {
		effective.MetricsAddress = runnerValues.MetricsAddress
	}
	return effective
}

func (builder *RunCommandBuilder) interruptSignals() []os.Signal {
	if len(builder.InterruptSignals) > 0 {
		return builder.InterruptSignals
	}
	return []os.Signal{os.Interrupt, syscall.SIGTERM}
}
