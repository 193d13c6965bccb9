package resolver

import (
	"fmt"
	"strings"
)

const (
	packageInstallHintTemplateConstant = "On Debian/Ubuntu, try: sudo apt update && sudo apt install -y %s"
	genericInstallHintConstant         = "Install it using your system's package manager or download it from its official website, then make sure it is on PATH or listed in the tools configuration."
	aptExecutableNameConstant          = "apt"
)

// InstallHint returns operator guidance for installing a missing tool. The apt
// command is offered only when apt is available and the tool names a package;
// otherwise the tool's own install guidance, then a generic note, is returned.
func InstallHint(specification ToolSpec, aptAvailable bool) string {
	packageName := strings.TrimSpace(specification.PackageName)
	if aptAvailable && len(packageName) > 0 {
		return fmt.Sprintf(packageInstallHintTemplateConstant, packageName)
	}
	if guidance := strings.TrimSpace(specification.InstallGuidance); len(guidance) > 0 {
		return guidance
	}
	return genericInstallHintConstant
}

// InstallHint returns guidance for the named tool, probing for apt with the
// resolver's executable search.
func (resolver *Resolver) InstallHint(toolName string) string {
	specification, _ := resolver.Spec(toolName)
	_, aptLookupError := resolver.lookPath(aptExecutableNameConstant)
	return InstallHint(specification, aptLookupError == nil)
}
