package reporter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/yaklabco/hbslint/pkg/analysis"
	"github.com/yaklabco/hbslint/pkg/config"
	"github.com/yaklabco/hbslint/pkg/lint"
	"github.com/yaklabco/hbslint/pkg/runner"
)

// SARIF version used by this reporter.
const sarifVersion = "2.1.0"

// SARIF schema URI.
const sarifSchemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"

// SARIFOutput represents the root SARIF document.
type SARIFOutput struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

// SARIFRun represents a single analysis run.
type SARIFRun struct {
	Tool        SARIFTool         `json:"tool"`
	Invocations []SARIFInvocation `json:"invocations"`
	Results     []SARIFResult     `json:"results"`
}

// SARIFTool describes the analysis tool.
type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

// SARIFDriver contains tool metadata and rules.
type SARIFDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []SARIFRule `json:"rules"`
}

// SARIFRule describes a rule (linter check).
type SARIFRule struct {
	ID               string               `json:"id"`
	Name             string               `json:"name,omitempty"`
	ShortDescription SARIFMultiformatText `json:"shortDescription,omitempty"`
	DefaultConfig    *SARIFRuleConfig     `json:"defaultConfiguration,omitempty"`
	Properties       map[string]any       `json:"properties,omitempty"`
}

// SARIFMultiformatText contains text in multiple formats.
type SARIFMultiformatText struct {
	Text string `json:"text"`
}

// SARIFRuleConfig contains rule configuration.
type SARIFRuleConfig struct {
	Level string `json:"level"`
}

// SARIFResult represents a single diagnostic result.
type SARIFResult struct {
	RuleID           string                 `json:"ruleId"`
	Level            string                 `json:"level"`
	Message          SARIFMessage           `json:"message"`
	Locations        []SARIFLocation        `json:"locations"`
	RelatedLocations []SARIFRelatedLocation `json:"relatedLocations,omitempty"`
}

// SARIFMessage contains the result message.
type SARIFMessage struct {
	Text string `json:"text"`
}

// SARIFLocation describes a code location.
type SARIFLocation struct {
	PhysicalLocation SARIFPhysicalLocation `json:"physicalLocation"`
}

// SARIFPhysicalLocation contains file path and region.
type SARIFPhysicalLocation struct {
	ArtifactLocation SARIFArtifactLocation `json:"artifactLocation"`
	Region           SARIFRegion           `json:"region"`
}

// SARIFArtifactLocation contains the file URI.
type SARIFArtifactLocation struct {
	URI string `json:"uri"`
}

// SARIFRegion describes the affected text region.
type SARIFRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn,omitempty"`
	EndLine     int `json:"endLine,omitempty"`
	EndColumn   int `json:"endColumn,omitempty"`
}

// SARIFRelatedLocation is a secondary location with its own message.
type SARIFRelatedLocation struct {
	ID               int                   `json:"id"`
	Message          SARIFMessage          `json:"message"`
	PhysicalLocation SARIFPhysicalLocation `json:"physicalLocation"`
}

// SARIFInvocation reports whether the run completed and why not.
type SARIFInvocation struct {
	ExecutionSuccessful        bool                `json:"executionSuccessful"`
	ToolExecutionNotifications []SARIFNotification `json:"toolExecutionNotifications,omitempty"`
}

// SARIFNotification describes a failure that is not a lint result.
type SARIFNotification struct {
	Level     string          `json:"level"`
	Message   SARIFMessage    `json:"message"`
	Locations []SARIFLocation `json:"locations,omitempty"`
	Rule      *SARIFRuleRef   `json:"associatedRule,omitempty"`
}

// SARIFRuleRef refers to a rule by ID.
type SARIFRuleRef struct {
	ID string `json:"id"`
}

// SARIFReporter formats results as SARIF.
type SARIFReporter struct {
	opts Options
	out  io.Writer
}

// NewSARIFReporter creates a new SARIF reporter.
func NewSARIFReporter(opts Options) *SARIFReporter {
	return &SARIFReporter{
		opts: opts,
		out:  opts.Writer,
	}
}

// Report implements Reporter.
func (r *SARIFReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.out)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode SARIF: %w", err)
	}

	return len(output.Runs[0].Results), nil
}

func (r *SARIFReporter) buildOutput(result *runner.Result) *SARIFOutput {
	output := &SARIFOutput{
		Schema:  sarifSchemaURI,
		Version: sarifVersion,
		Runs: []SARIFRun{{
			Tool: SARIFTool{
				Driver: SARIFDriver{
					Name:           "hbslint",
					Version:        r.opts.toolVersion(),
					InformationURI: "https://github.com/yaklabco/hbslint",
					Rules:          make([]SARIFRule, 0),
				},
			},
			Invocations: []SARIFInvocation{{ExecutionSuccessful: true}},
			Results:     make([]SARIFResult, 0),
		}},
	}

	if result == nil {
		return output
	}

	run := &output.Runs[0]
	invocation := &run.Invocations[0]

	// Track rules we've already added
	rulesSeen := make(map[string]bool)

	for _, file := range result.Files {
		uri := analysis.MakeRelativePath(file.Path, r.opts.WorkingDir)

		if file.Error != nil {
			invocation.ExecutionSuccessful = false
			invocation.ToolExecutionNotifications = append(invocation.ToolExecutionNotifications, SARIFNotification{
				Level:     "error",
				Message:   SARIFMessage{Text: file.Error.Error()},
				Locations: []SARIFLocation{{PhysicalLocation: physicalLocation(uri, SARIFRegion{StartLine: 1})}},
			})
			continue
		}

		if file.Result == nil {
			continue
		}

		for _, ruleID := range sortedRuleIDs(file.Result.RuleErrors) {
			invocation.ExecutionSuccessful = false
			invocation.ToolExecutionNotifications = append(invocation.ToolExecutionNotifications, SARIFNotification{
				Level:     "error",
				Message:   SARIFMessage{Text: file.Result.RuleErrors[ruleID].Error()},
				Locations: []SARIFLocation{{PhysicalLocation: physicalLocation(uri, SARIFRegion{StartLine: 1})}},
				Rule:      &SARIFRuleRef{ID: ruleID},
			})
		}

		for _, diag := range file.Result.Diagnostics {
			if !rulesSeen[diag.RuleID] {
				rule := SARIFRule{
					ID:   diag.RuleID,
					Name: diag.RuleName,
					ShortDescription: SARIFMultiformatText{
						Text: diag.Message,
					},
					DefaultConfig: &SARIFRuleConfig{
						Level: severityToSARIFLevel(diag.Severity),
					},
				}
				run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, rule)
				rulesSeen[diag.RuleID] = true
			}

			run.Results = append(run.Results, sarifResult(uri, &diag))
		}
	}

	return output
}

func sarifResult(uri string, diag *lint.Diagnostic) SARIFResult {
	result := SARIFResult{
		RuleID: diag.RuleID,
		Level:  severityToSARIFLevel(diag.Severity),
		Message: SARIFMessage{
			Text: diag.Message,
		},
		Locations: []SARIFLocation{{
			PhysicalLocation: physicalLocation(uri, SARIFRegion{
				StartLine:   diag.StartLine,
				StartColumn: diag.StartColumn,
				EndLine:     diag.EndLine,
				EndColumn:   diag.EndColumn,
			}),
		}},
	}

	for i, rel := range diag.Related {
		text := rel.Message
		if rel.Source != "" {
			text += " (" + rel.Source + ")"
		}
		result.RelatedLocations = append(result.RelatedLocations, SARIFRelatedLocation{
			ID:      i + 1,
			Message: SARIFMessage{Text: text},
			PhysicalLocation: physicalLocation(uri, SARIFRegion{
				StartLine:   rel.Line,
				StartColumn: rel.Column,
			}),
		})
	}

	return result
}

func physicalLocation(uri string, region SARIFRegion) SARIFPhysicalLocation {
	return SARIFPhysicalLocation{
		ArtifactLocation: SARIFArtifactLocation{URI: uri},
		Region:           region,
	}
}

// severityToSARIFLevel converts hbslint severity to SARIF level.
func severityToSARIFLevel(severity config.Severity) string {
	switch severity {
	case config.SeverityError:
		return "error"
	case config.SeverityWarning:
		return "warning"
	case config.SeverityInfo:
		return "note"
	default:
		return "warning"
	}
}
