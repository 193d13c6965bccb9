package resolver

import (
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

const (
	resolutionStartedMessageConstant          = "resolving tool executable"
	resolutionCacheHitMessageConstant         = "tool executable served from cache"
	resolutionCandidateMessageConstant        = "checking executable candidate"
	resolutionCandidateSkippedMessageConstant = "executable candidate skipped"
	resolutionSucceededMessageConstant        = "tool executable resolved"
	resolutionFailedMessageConstant           = "tool executable not found"
	interpreterMissingReasonConstant          = "interpreter not found"
	candidateNotFoundReasonConstant           = "not found or not executable"
	logFieldToolConstant                      = "tool"
	logFieldCandidateConstant                 = "candidate"
	logFieldPrefixConstant                    = "prefix"
	logFieldReasonConstant                    = "reason"
	logFieldErrorConstant                     = "error"
	fallbackDisplayNameSeparatorConstant      = " "
	fallbackDisplayNameCharacterLimitConstant = 1
)

// LookPathFunc locates an executable by absolute path or bare command name.
type LookPathFunc func(file string) (string, error)

// ResolvedExecutable is the ordered invocation prefix for a tool, such as
// [interpreter, script] or [binary].
type ResolvedExecutable struct {
	segments []string
}

// NewResolvedExecutable copies the provided segments into a ResolvedExecutable.
func NewResolvedExecutable(segments ...string) ResolvedExecutable {
	return ResolvedExecutable{segments: append([]string{}, segments...)}
}

// Segments returns a copy of the invocation prefix.
func (executable ResolvedExecutable) Segments() []string {
	return append([]string{}, executable.segments...)
}

// IsEmpty reports whether the executable carries no segments.
func (executable ResolvedExecutable) IsEmpty() bool {
	return len(executable.segments) == 0
}

// String joins the prefix segments with spaces for display.
func (executable ResolvedExecutable) String() string {
	return strings.Join(executable.segments, " ")
}

type resolutionOutcome struct {
	executable ResolvedExecutable
	found      bool
}

// Option customizes a Resolver.
type Option func(resolver *Resolver)

// WithLookPath replaces the executable search function.
func WithLookPath(lookPath LookPathFunc) Option {
	return func(resolver *Resolver) {
		if lookPath != nil {
			resolver.lookPath = lookPath
		}
	}
}

// WithLogger attaches a logger used for resolution diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(resolver *Resolver) {
		if logger != nil {
			resolver.logger = logger
		}
	}
}

// Resolver locates installed tools and caches the outcome for its lifetime.
type Resolver struct {
	specifications map[string]ToolSpec
	lookPath       LookPathFunc
	logger         *zap.Logger

	mutex sync.Mutex
	cache map[string]resolutionOutcome
}

// NewResolver builds a Resolver over the provided tool specifications.
func NewResolver(specifications []ToolSpec, options ...Option) *Resolver {
	resolver := &Resolver{
		specifications: make(map[string]ToolSpec, len(specifications)),
		lookPath:       exec.LookPath,
		logger:         zap.NewNop(),
		cache:          make(map[string]resolutionOutcome),
	}

	for _, specification := range specifications {
		normalizedName := normalizeToolName(specification.Name)
		if len(normalizedName) == 0 {
			continue
		}
		resolver.specifications[normalizedName] = specification.clone()
	}

	for _, option := range options {
		option(resolver)
	}

	return resolver
}

// Resolve returns the cached or freshly searched invocation prefix for the named tool.
// The boolean is false when no usable candidate exists.
func (resolver *Resolver) Resolve(toolName string) (ResolvedExecutable, bool) {
	normalizedName := normalizeToolName(toolName)

	resolver.mutex.Lock()
	defer resolver.mutex.Unlock()

	if outcome, cached := resolver.cache[normalizedName]; cached {
		resolver.logger.Debug(resolutionCacheHitMessageConstant, zap.String(logFieldToolConstant, normalizedName), zap.Bool("found", outcome.found))
		return outcome.executable, outcome.found
	}

	outcome := resolver.search(normalizedName)
	resolver.cache[normalizedName] = outcome
	return outcome.executable, outcome.found
}

// Refresh discards the cached outcome for the named tool and searches again.
func (resolver *Resolver) Refresh(toolName string) (ResolvedExecutable, bool) {
	normalizedName := normalizeToolName(toolName)

	resolver.mutex.Lock()
	delete(resolver.cache, normalizedName)
	resolver.mutex.Unlock()

	return resolver.Resolve(normalizedName)
}

// Lookup reports the cached outcome without searching. The second result is
// false when the tool has not been resolved yet.
func (resolver *Resolver) Lookup(toolName string) (ResolvedExecutable, bool, bool) {
	normalizedName := normalizeToolName(toolName)

	resolver.mutex.Lock()
	defer resolver.mutex.Unlock()

	outcome, cached := resolver.cache[normalizedName]
	return outcome.executable, outcome.found, cached
}

// Spec returns the tool specification registered for the name. Unknown names
// receive a synthesized specification whose only candidate is the name itself.
func (resolver *Resolver) Spec(toolName string) (ToolSpec, bool) {
	normalizedName := normalizeToolName(toolName)
	specification, exists := resolver.specifications[normalizedName]
	if exists {
		return specification.clone(), true
	}
	return ToolSpec{
		Name:        normalizedName,
		DisplayName: fallbackDisplayName(normalizedName),
		Candidates:  []string{normalizedName},
	}, false
}

// Specs returns all registered specifications sorted by name.
func (resolver *Resolver) Specs() []ToolSpec {
	specifications := make([]ToolSpec, 0, len(resolver.specifications))
	for _, specification := range resolver.specifications {
		specifications = append(specifications, specification.clone())
	}
	sort.Slice(specifications, func(leftIndex int, rightIndex int) bool {
		return specifications[leftIndex].Name < specifications[rightIndex].Name
	})
	return specifications
}

func (resolver *Resolver) search(normalizedName string) resolutionOutcome {
	specification, _ := resolver.Spec(normalizedName)
	resolver.logger.Debug(resolutionStartedMessageConstant, zap.String(logFieldToolConstant, normalizedName), zap.Strings("candidates", specification.Candidates))

	for _, candidate := range specification.Candidates {
		trimmedCandidate := strings.TrimSpace(candidate)
		if len(trimmedCandidate) == 0 {
			continue
		}

		resolver.logger.Debug(resolutionCandidateMessageConstant, zap.String(logFieldToolConstant, normalizedName), zap.String(logFieldCandidateConstant, trimmedCandidate))

		foundPath, lookupError := resolver.lookPath(trimmedCandidate)
		if lookupError != nil {
			resolver.logger.Debug(
				resolutionCandidateSkippedMessageConstant,
				zap.String(logFieldToolConstant, normalizedName),
				zap.String(logFieldCandidateConstant, trimmedCandidate),
				zap.String(logFieldReasonConstant, candidateNotFoundReasonConstant),
				zap.String(logFieldErrorConstant, lookupError.Error()),
			)
			continue
		}

		if specification.Interpreter != nil && specification.Interpreter.matches(trimmedCandidate, foundPath) {
			interpreterPath, interpreterFound := resolver.resolveInterpreter(*specification.Interpreter)
			if !interpreterFound {
				resolver.logger.Debug(
					resolutionCandidateSkippedMessageConstant,
					zap.String(logFieldToolConstant, normalizedName),
					zap.String(logFieldCandidateConstant, foundPath),
					zap.String(logFieldReasonConstant, interpreterMissingReasonConstant),
				)
				continue
			}
			executable := NewResolvedExecutable(interpreterPath, foundPath)
			resolver.logger.Debug(resolutionSucceededMessageConstant, zap.String(logFieldToolConstant, normalizedName), zap.Strings(logFieldPrefixConstant, executable.Segments()))
			return resolutionOutcome{executable: executable, found: true}
		}

		executable := NewResolvedExecutable(foundPath)
		resolver.logger.Debug(resolutionSucceededMessageConstant, zap.String(logFieldToolConstant, normalizedName), zap.Strings(logFieldPrefixConstant, executable.Segments()))
		return resolutionOutcome{executable: executable, found: true}
	}

	resolver.logger.Debug(resolutionFailedMessageConstant, zap.String(logFieldToolConstant, normalizedName))
	return resolutionOutcome{}
}

func (resolver *Resolver) resolveInterpreter(requirement InterpreterRequirement) (string, bool) {
	for _, interpreterCandidate := range requirement.Candidates {
		trimmedCandidate := strings.TrimSpace(interpreterCandidate)
		if len(trimmedCandidate) == 0 {
			continue
		}
		interpreterPath, lookupError := resolver.lookPath(trimmedCandidate)
		if lookupError == nil {
			return interpreterPath, true
		}
	}
	return "", false
}

func (requirement InterpreterRequirement) matches(candidate string, foundPath string) bool {
	foundExtension := strings.ToLower(filepath.Ext(foundPath))
	for _, extension := range requirement.Extensions {
		if len(extension) > 0 && strings.EqualFold(foundExtension, extension) {
			return true
		}
	}
	for _, pathHint := range requirement.PathHints {
		if len(pathHint) > 0 && (strings.Contains(candidate, pathHint) || strings.Contains(foundPath, pathHint)) {
			return true
		}
	}
	return false
}

func normalizeToolName(toolName string) string {
	return strings.ToLower(strings.TrimSpace(toolName))
}

func fallbackDisplayName(normalizedName string) string {
	if len(normalizedName) <= fallbackDisplayNameCharacterLimitConstant {
		return strings.ToUpper(normalizedName)
	}
	words := strings.Fields(strings.ReplaceAll(normalizedName, "-", fallbackDisplayNameSeparatorConstant))
	for wordIndex, word := range words {
		words[wordIndex] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, fallbackDisplayNameSeparatorConstant)
}
