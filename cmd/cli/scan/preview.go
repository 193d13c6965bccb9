package scan

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/redboar/internal/adapters"
	"github.com/temirov/redboar/internal/execshell"
	"github.com/temirov/redboar/internal/orchestrator"
	"github.com/temirov/redboar/internal/utils"
	flagutils "github.com/temirov/redboar/internal/utils/flags"
)

const (
	previewCommandUseConstant               = "preview <tool>"
	previewCommandShortDescriptionConstant  = "Print the command line a scan would run"
	previewCommandLongDescriptionConstant   = "preview validates tool parameters and prints the shell-quoted command line without starting the tool."
	resolveFlagNameConstant                 = "resolve"
	resolveFlagUsageConstant                = "Resolve the executable from the configured candidates"
	previewLineTemplateConstant             = "%s\n"
	previewBuiltMessageConstant             = "command previewed"
	previewLogFieldToolConstant             = "tool"
	previewLogFieldArgumentsConstant        = "arguments"
	controllerCreationErrorTemplateConstant = "unable to create run controller: %w"
)

// PreviewCommandBuilder assembles the preview command.
type PreviewCommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	Dependencies          Dependencies
}

// Build constructs the preview command.
func (builder *PreviewCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   previewCommandUseConstant,
		Short: previewCommandShortDescriptionConstant,
		Long:  previewCommandLongDescriptionConstant,
		Args:  cobra.ExactArgs(1),
	}

	parameterValues := flagutils.BindParameterFlags(command)
	resolveExecutable := true
	flagutils.AddToggleFlag(command.Flags(), &resolveExecutable, resolveFlagNameConstant, "", true, resolveFlagUsageConstant)

	command.RunE = func(command *cobra.Command, arguments []string) error {
		return builder.run(command, arguments, parameterValues, resolveExecutable)
	}
	return command, nil
}

func (builder *PreviewCommandBuilder) run(command *cobra.Command, arguments []string, parameterValues *flagutils.ParameterFlagValues, resolveExecutable bool) error {
	toolName, nameError := toolNameFromArguments(arguments)
	if nameError != nil {
		return nameError
	}

	logger := resolveLogger(builder.LoggerProvider)
	expander := builder.Dependencies.homeExpander()
	configuration := resolveConfiguration(builder.ConfigurationProvider, expander)

	parameters, parametersError := CollectParameters(parameterValues, expander)
	if parametersError != nil {
		return parametersError
	}

	registry := builder.Dependencies.newRegistry()
	toolResolver := builder.Dependencies.newResolver(configuration.Tools, logger)

	var vector execshell.ArgumentVector
	if resolveExecutable {
		controller, controllerError := orchestrator.NewController(orchestrator.ControllerDependencies{
			Registry: registry,
			Resolver: toolResolver,
			Runner:   execshell.NewProcessRunner(logger, configuration.Runner.runnerOptions()),
			Logger:   logger,
		})
		if controllerError != nil {
			return fmt.Errorf(controllerCreationErrorTemplateConstant, controllerError)
		}
		builtVector, buildError := controller.BuildCommand(toolName, parameters, parameterValues.ExtraArguments)
		if buildError != nil {
			return buildError
		}
		vector = builtVector
	} else {
		unresolvedVector, buildError := buildUnresolvedVector(registry, toolName, parameters, parameterValues.ExtraArguments)
		if buildError != nil {
			return buildError
		}
		vector = unresolvedVector
	}

	logger.Debug(previewBuiltMessageConstant, zap.String(previewLogFieldToolConstant, toolName), zap.Strings(previewLogFieldArgumentsConstant, vector.Arguments()))
	fmt.Fprintf(utils.NewFlushingWriter(command.OutOrStdout()), previewLineTemplateConstant, adapters.FormatCommandLine(vector.Arguments()))
	return nil
}

// buildUnresolvedVector uses the bare tool name as the executable.
func buildUnresolvedVector(registry *adapters.Registry, toolName string, parameters adapters.ParameterSet, extraArguments string) (execshell.ArgumentVector, error) {
	adapter, lookupError := registry.Lookup(toolName)
	if lookupError != nil {
		return execshell.ArgumentVector{}, lookupError
	}
	toolArguments, buildError := adapter.BuildArguments(parameters)
	if buildError != nil {
		return execshell.ArgumentVector{}, buildError
	}
	extraTokens, splitError := adapters.SplitExtraArguments(extraArguments)
	if splitError != nil {
		return execshell.ArgumentVector{}, splitError
	}
	return execshell.NewArgumentVector([]string{adapter.ToolName()}, toolArguments, extraTokens), nil
}
