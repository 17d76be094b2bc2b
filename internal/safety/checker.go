package safety

import (
	"log"

	"github.com/trikdhar/mymake/internal/parser"
)

// Checker performs safety checks on rule recipes
type Checker struct {
	rules  []Rule
	config *Config
}

// NewChecker creates a new safety checker with the given configuration
func NewChecker(config *Config) (*Checker, error) {
	if config == nil {
		config = DefaultConfig()
	}

	// Collect and compile all rules
	rules := collectRules(config)

	return &Checker{
		rules:  rules,
		config: config,
	}, nil
}

// collectRules gathers all rules from config (built-in + custom)
// Only includes rules that compile successfully
func collectRules(config *Config) []Rule {
	var rules []Rule

	// Add built-in rules if enabled
	if config.Enabled {
		for _, rule := range BuiltinRules {
			// Check if this rule is enabled
			if len(config.EnabledRules) == 0 || contains(config.EnabledRules, rule.ID) {
				// Test compile before adding
				if err := rule.Compile(); err != nil {
					log.Printf("Warning: skipping invalid built-in rule %s: %v", rule.ID, err)
					continue
				}
				rules = append(rules, rule)
			}
		}
	}

	// Add custom rules
	for _, rule := range config.CustomRules {
		// Test compile before adding
		if err := rule.Compile(); err != nil {
			log.Printf("Warning: skipping invalid custom rule %s: %v", rule.ID, err)
			continue
		}
		rules = append(rules, rule)
	}

	return rules
}

// CheckTarget performs safety check on a single rule
// Returns nil if the rule is safe or excluded
func (c *Checker) CheckTarget(rule parser.Rule) *SafetyCheckResult {
	// Skip if safety checks disabled
	if !c.config.Enabled {
		return nil
	}

	// Skip if target is in exclusion list
	if contains(c.config.ExcludeTargets, rule.Target) {
		return nil
	}

	// Skip if target has no recipe (meta-targets, phony targets with only deps)
	if len(rule.Commands) == 0 {
		return nil
	}

	var matches []MatchResult
	highestSeverity := SeverityInfo

	// Check each safety rule against the target's recipe
	for _, safetyRule := range c.rules {
		if matched, matchedLine := safetyRule.Matches(rule.Commands); matched {
			// Adjust severity based on context
			adjustedSeverity := adjustSeverity(rule, safetyRule, matchedLine)

			match := MatchResult{
				Target:      rule.Target,
				Rule:        safetyRule,
				MatchedLine: matchedLine,
				Severity:    adjustedSeverity,
			}
			matches = append(matches, match)

			// Track highest severity
			if adjustedSeverity > highestSeverity {
				highestSeverity = adjustedSeverity
			}
		}
	}

	// Return nil if no matches
	if len(matches) == 0 {
		return nil
	}

	return &SafetyCheckResult{
		TargetName:  rule.Target,
		IsDangerous: true,
		DangerLevel: highestSeverity,
		Matches:     matches,
	}
}

// CheckLine checks a single already-resolved command line — typically
// one pipeline stage's argv, joined back into a string — against the
// configured rules. Unlike CheckTarget it has no target name to adjust
// severity against (adjustSeverity's clean/dev-target heuristics don't
// apply to a bare stage), so matches carry the rule's own severity.
func (c *Checker) CheckLine(line string) *SafetyCheckResult {
	if !c.config.Enabled || line == "" {
		return nil
	}

	var matches []MatchResult
	highestSeverity := SeverityInfo

	for _, safetyRule := range c.rules {
		if matched, matchedLine := safetyRule.Matches([]string{line}); matched {
			match := MatchResult{Rule: safetyRule, MatchedLine: matchedLine, Severity: safetyRule.Severity}
			matches = append(matches, match)
			if safetyRule.Severity > highestSeverity {
				highestSeverity = safetyRule.Severity
			}
		}
	}

	if len(matches) == 0 {
		return nil
	}

	return &SafetyCheckResult{IsDangerous: true, DangerLevel: highestSeverity, Matches: matches}
}

// CheckAllTargets performs safety check on all rules
// Returns map of target name -> result (only includes dangerous targets)
func (c *Checker) CheckAllTargets(rules []parser.Rule) map[string]*SafetyCheckResult {
	results := make(map[string]*SafetyCheckResult)

	for _, rule := range rules {
		if result := c.CheckTarget(rule); result != nil {
			results[rule.Target] = result
		}
	}

	return results
}

// contains checks if slice contains string
func contains(slice []string, str string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}
