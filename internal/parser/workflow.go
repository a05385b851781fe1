// Package parser reads workflow documents in the YAML workflow schema.
// Every mapping key is resolved through the workflow keyword registry, so a
// key outside the schema is reported with its location.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/swarmourr/pegasus-sub001/internal/graph"
	"github.com/swarmourr/pegasus-sub001/internal/keywords"
	"github.com/swarmourr/pegasus-sub001/pkg/types"
)

// jobType is the only job type the planner accepts.
const jobType = "job"

// Workflow is a parsed workflow document.
type Workflow struct {
	Pegasus  string
	Name     string
	Metadata map[string]string
	Graph    *graph.Graph

	// Inline catalogs embedded in the workflow document, keyed by
	// WorkflowReplicaCatalog, WorkflowSiteCatalog or WorkflowTransformationCatalog.
	Catalogs map[keywords.WorkflowKeyword]*yaml.Node
}

// YAMLParser parses workflow YAML documents.
type YAMLParser struct{}

// NewYAMLParser creates a new YAMLParser.
func NewYAMLParser() *YAMLParser {
	return &YAMLParser{}
}

// ParseFile parses a workflow document from a file.
func (p *YAMLParser) ParseFile(path string) (*Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewParseError(0, 0, fmt.Sprintf("failed to read file: %s", path), err)
	}
	return p.Parse(data)
}

// Parse parses a workflow document.
func (p *YAMLParser) Parse(data []byte) (*Workflow, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, NewParseError(0, 0, "empty workflow document", err)
		}
		return nil, NewParseError(0, 0, err.Error(), err)
	}
	if len(doc.Content) == 0 {
		return nil, NewParseError(0, 0, "empty workflow document", nil)
	}

	wf := &Workflow{
		Graph:    graph.New(),
		Catalogs: make(map[keywords.WorkflowKeyword]*yaml.Node),
	}

	pairs, err := mappingPairs(doc.Content[0], "workflow")
	if err != nil {
		return nil, err
	}

	var jobsNode, depsNode *yaml.Node
	for _, kv := range pairs {
		key, val := kv[0], kv[1]
		kw, _ := keywords.LookupWorkflowKeyword(key.Value)
		switch kw {
		case keywords.WorkflowPegasus:
			wf.Pegasus, err = scalarString(val, key.Value)
		case keywords.WorkflowName:
			wf.Name, err = scalarString(val, key.Value)
		case keywords.WorkflowMetadata:
			wf.Metadata, err = stringMap(val, key.Value)
		case keywords.WorkflowJobs:
			jobsNode = val
		case keywords.WorkflowJobDependencies:
			depsNode = val
		case keywords.WorkflowReplicaCatalog, keywords.WorkflowSiteCatalog, keywords.WorkflowTransformationCatalog:
			wf.Catalogs[kw] = val
		case keywords.WorkflowHooks, keywords.WorkflowXPegasus:
			// accepted, not used for planning
		default:
			err = nodeError(key, "unknown workflow key %q", key.Value)
		}
		if err != nil {
			return nil, err
		}
	}

	if wf.Pegasus == "" {
		return nil, NewValidationError(keywords.WorkflowPegasus.ReservedName(), "schema version is required")
	}
	if wf.Name == "" {
		return nil, NewValidationError(keywords.WorkflowName.ReservedName(), "workflow name is required")
	}
	if jobsNode == nil {
		return nil, NewValidationError(keywords.WorkflowJobs.ReservedName(), "workflow must have at least one job")
	}

	if err := p.parseJobs(jobsNode, wf.Graph); err != nil {
		return nil, err
	}
	if wf.Graph.Len() == 0 {
		return nil, NewValidationError(keywords.WorkflowJobs.ReservedName(), "workflow must have at least one job")
	}
	if depsNode != nil {
		if err := p.parseDependencies(depsNode, wf.Graph); err != nil {
			return nil, err
		}
	}
	return wf, nil
}

func (p *YAMLParser) parseJobs(n *yaml.Node, g *graph.Graph) error {
	if n.Kind != yaml.SequenceNode {
		return nodeError(n, "%s must be a list", keywords.WorkflowJobs)
	}
	for _, item := range n.Content {
		job, err := p.parseJob(item)
		if err != nil {
			return err
		}
		if err := g.AddJob(job); err != nil {
			return NewParseError(item.Line, item.Column, err.Error(), err)
		}
	}
	return nil
}

func (p *YAMLParser) parseJob(n *yaml.Node) (*types.Job, error) {
	pairs, err := mappingPairs(n, "job")
	if err != nil {
		return nil, err
	}

	job := types.NewJob("", "", "", "")
	for _, kv := range pairs {
		key, val := kv[0], kv[1]
		kw, _ := keywords.LookupWorkflowKeyword(key.Value)
		switch kw {
		case keywords.WorkflowType:
			var t string
			if t, err = scalarString(val, key.Value); err == nil && t != jobType {
				err = nodeError(val, "unsupported job type %q", t)
			}
		case keywords.WorkflowJobID:
			job.ID, err = scalarString(val, key.Value)
		case keywords.WorkflowName:
			job.Name, err = scalarString(val, key.Value)
		case keywords.WorkflowJobNamespace:
			job.Namespace, err = scalarString(val, key.Value)
		case keywords.WorkflowJobVersion:
			job.Version, err = scalarString(val, key.Value)
		case keywords.WorkflowNodeLabel:
			job.NodeLabel, err = scalarString(val, key.Value)
		case keywords.WorkflowJobArguments:
			job.Arguments, err = stringList(val, key.Value)
		case keywords.WorkflowUses:
			job.Uses, err = p.parseUses(val)
		case keywords.WorkflowProfiles:
			err = p.parseProfiles(val, job)
		case keywords.WorkflowMetadata:
			var md map[string]string
			if md, err = stringMap(val, key.Value); err == nil {
				for k, v := range md {
					job.Profiles.Set(types.MetadataNamespace, k, v)
				}
			}
		case keywords.WorkflowJobStdin, keywords.WorkflowJobStdout, keywords.WorkflowJobStderr,
			keywords.WorkflowHooks, keywords.WorkflowJobFile:
			// accepted, not used for planning
		default:
			err = nodeError(key, "unknown job key %q", key.Value)
		}
		if err != nil {
			return nil, err
		}
	}

	if job.ID == "" {
		return nil, nodeError(n, "job %s is required", keywords.WorkflowJobID)
	}
	if job.Name == "" {
		return nil, nodeError(n, "job %s: %s is required", job.ID, keywords.WorkflowName)
	}
	return job, nil
}

func (p *YAMLParser) parseUses(n *yaml.Node) ([]types.FileUse, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, nodeError(n, "%s must be a list", keywords.WorkflowUses)
	}

	uses := make([]types.FileUse, 0, len(n.Content))
	for _, item := range n.Content {
		pairs, err := mappingPairs(item, "use")
		if err != nil {
			return nil, err
		}

		var use types.FileUse
		for _, kv := range pairs {
			key, val := kv[0], kv[1]
			kw, _ := keywords.LookupWorkflowKeyword(key.Value)
			switch kw {
			case keywords.WorkflowLFN:
				use.LFN, err = scalarString(val, key.Value)
			case keywords.WorkflowType:
				var t string
				if t, err = scalarString(val, key.Value); err == nil {
					use.Type, err = parseLinkType(val, t)
				}
			case keywords.WorkflowStageOut:
				use.StageOut, err = scalarBool(val, key.Value)
			case keywords.WorkflowRegisterReplica:
				use.RegisterReplica, err = scalarBool(val, key.Value)
			case keywords.WorkflowOptional:
				use.Optional, err = scalarBool(val, key.Value)
			case keywords.WorkflowBypass:
				use.Bypass, err = scalarBool(val, key.Value)
			case keywords.WorkflowForPlanning:
				use.ForPlanning, err = scalarBool(val, key.Value)
			case keywords.WorkflowSize:
				use.Size, err = scalarInt(val, key.Value)
			case keywords.WorkflowMetadata:
				use.Metadata, err = stringMap(val, key.Value)
			default:
				err = nodeError(key, "unknown uses key %q", key.Value)
			}
			if err != nil {
				return nil, err
			}
		}

		if use.LFN == "" {
			return nil, nodeError(item, "%s is required", keywords.WorkflowLFN)
		}
		if use.Type == "" {
			return nil, nodeError(item, "%s %s: %s is required", keywords.WorkflowLFN, use.LFN, keywords.WorkflowType)
		}
		uses = append(uses, use)
	}
	return uses, nil
}

func parseLinkType(n *yaml.Node, s string) (types.LinkType, error) {
	switch t := types.LinkType(s); t {
	case types.LinkInput, types.LinkOutput, types.LinkCheckpoint, types.LinkInout:
		return t, nil
	default:
		return "", nodeError(n, "unknown link type %q", s)
	}
}

func (p *YAMLParser) parseProfiles(n *yaml.Node, job *types.Job) error {
	pairs, err := mappingPairs(n, keywords.WorkflowProfiles.ReservedName())
	if err != nil {
		return err
	}
	for _, kv := range pairs {
		ns := kv[0].Value
		values, err := stringMap(kv[1], ns)
		if err != nil {
			return err
		}
		for k, v := range values {
			if ns == types.HintsNamespace {
				job.Hints[k] = v
				continue
			}
			job.Profiles.Set(ns, k, v)
		}
	}
	return nil
}

func (p *YAMLParser) parseDependencies(n *yaml.Node, g *graph.Graph) error {
	if n.Kind != yaml.SequenceNode {
		return nodeError(n, "%s must be a list", keywords.WorkflowJobDependencies)
	}

	for _, item := range n.Content {
		pairs, err := mappingPairs(item, "dependency")
		if err != nil {
			return err
		}

		var parent string
		var children []string
		for _, kv := range pairs {
			key, val := kv[0], kv[1]
			kw, _ := keywords.LookupWorkflowKeyword(key.Value)
			switch kw {
			case keywords.WorkflowJobID:
				parent, err = scalarString(val, key.Value)
			case keywords.WorkflowChildren:
				children, err = stringList(val, key.Value)
			default:
				err = nodeError(key, "unknown dependency key %q", key.Value)
			}
			if err != nil {
				return err
			}
		}

		if parent == "" {
			return nodeError(item, "dependency %s is required", keywords.WorkflowJobID)
		}
		for _, child := range children {
			if err := g.AddDependency(parent, child); err != nil {
				return NewParseError(item.Line, item.Column, err.Error(), err)
			}
		}
	}
	return nil
}
