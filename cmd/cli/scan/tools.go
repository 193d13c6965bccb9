package scan

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/redboar/internal/utils"
)

const (
	toolsCommandUseConstant              = "tools"
	toolsCommandShortDescriptionConstant = "List wrapped tools and whether their executables are installed"
	toolsCommandLongDescriptionConstant  = "tools resolves every registered tool against the configured candidate locations and prints the invocation prefix or an installation hint."
	toolsRowTemplateConstant             = "%-14s %-18s %-10s %s\n"
	toolsHeaderNameConstant              = "TOOL"
	toolsHeaderDisplayConstant           = "NAME"
	toolsHeaderStatusConstant            = "STATUS"
	toolsHeaderDetailConstant            = "COMMAND"
	toolsStatusAvailableConstant         = "available"
	toolsStatusMissingConstant           = "missing"
	toolsConfigurationTemplateConstant   = "Configuration: %s\n"
	toolsResolvedMessageConstant         = "tool availability checked"
	toolsLogFieldToolConstant            = "tool"
	toolsLogFieldAvailableConstant       = "available"
)

// ToolsCommandBuilder assembles the tools command.
type ToolsCommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	Dependencies          Dependencies
}

// Build constructs the tools command.
func (builder *ToolsCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   toolsCommandUseConstant,
		Short: toolsCommandShortDescriptionConstant,
		Long:  toolsCommandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}
	return command, nil
}

func (builder *ToolsCommandBuilder) run(command *cobra.Command, _ []string) error {
	logger := resolveLogger(builder.LoggerProvider)
	configuration := resolveConfiguration(builder.ConfigurationProvider, builder.Dependencies.homeExpander())
	registry := builder.Dependencies.newRegistry()
	toolResolver := builder.Dependencies.newResolver(configuration.Tools, logger)

	output := utils.NewFlushingWriter(command.OutOrStdout())
	if configurationPath, available := utils.NewCommandContextAccessor().ConfigurationFilePath(command.Context()); available && len(configurationPath) > 0 {
		fmt.Fprintf(output, toolsConfigurationTemplateConstant, configurationPath)
	}
	fmt.Fprintf(output, toolsRowTemplateConstant, toolsHeaderNameConstant, toolsHeaderDisplayConstant, toolsHeaderStatusConstant, toolsHeaderDetailConstant)

	for _, toolName := range registry.Names() {
		specification, _ := toolResolver.Spec(toolName)
		executable, found := toolResolver.Resolve(toolName)
		logger.Debug(toolsResolvedMessageConstant, zap.String(toolsLogFieldToolConstant, toolName), zap.Bool(toolsLogFieldAvailableConstant, found))

		status := toolsStatusMissingConstant
		detail := toolResolver.InstallHint(toolName)
		if found {
			status = toolsStatusAvailableConstant
			detail = strings.Join(executable.Segments(), " ")
		}
		fmt.Fprintf(output, toolsRowTemplateConstant, toolName, specification.DisplayName, status, detail)
	}
	return nil
}
