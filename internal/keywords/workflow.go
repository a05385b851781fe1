package keywords

// WorkflowKeyword is a reserved key of the workflow YAML schema.
type WorkflowKeyword int

// Workflow keywords. WorkflowUnknown is returned for tokens outside the schema.
const (
	WorkflowUnknown WorkflowKeyword = iota
	WorkflowPegasus
	WorkflowXPegasus
	WorkflowName
	WorkflowWorkflow
	WorkflowReplicaCatalog
	WorkflowSiteCatalog
	WorkflowTransformationCatalog
	WorkflowHooks
	WorkflowHooksShellType
	WorkflowJobs
	WorkflowJobNamespace
	WorkflowJobVersion
	WorkflowJobID
	WorkflowJobArguments
	WorkflowJobStdin
	WorkflowJobStdout
	WorkflowJobStderr
	WorkflowJobFile
	WorkflowProfiles
	WorkflowUses
	WorkflowLFN
	WorkflowMetadata
	WorkflowNodeLabel
	WorkflowType
	WorkflowStageOut
	WorkflowRegisterReplica
	WorkflowOptional
	WorkflowBypass
	WorkflowForPlanning
	WorkflowSize
	WorkflowJobDependencies
	WorkflowChildren
)

var workflowTokens = map[WorkflowKeyword]string{
	WorkflowPegasus:               "pegasus",
	WorkflowXPegasus:              "x-pegasus",
	WorkflowName:                  "name",
	WorkflowWorkflow:              "workflow",
	WorkflowReplicaCatalog:        "replicaCatalog",
	WorkflowSiteCatalog:           "siteCatalog",
	WorkflowTransformationCatalog: "transformationCatalog",
	WorkflowHooks:                 "hooks",
	WorkflowHooksShellType:        "shell",
	WorkflowJobs:                  "jobs",
	WorkflowJobNamespace:          "namespace",
	WorkflowJobVersion:            "version",
	WorkflowJobID:                 "id",
	WorkflowJobArguments:          "arguments",
	WorkflowJobStdin:              "stdin",
	WorkflowJobStdout:             "stdout",
	WorkflowJobStderr:             "stderr",
	WorkflowJobFile:               "file",
	WorkflowProfiles:              "profiles",
	WorkflowUses:                  "uses",
	WorkflowLFN:                   "lfn",
	WorkflowMetadata:              "metadata",
	WorkflowNodeLabel:             "nodeLabel",
	WorkflowType:                  "type",
	WorkflowStageOut:              "stageOut",
	WorkflowRegisterReplica:       "registerReplica",
	WorkflowOptional:              "optional",
	WorkflowBypass:                "bypass",
	WorkflowForPlanning:           "forPlanning",
	WorkflowSize:                  "size",
	WorkflowJobDependencies:       "jobDependencies",
	WorkflowChildren:              "children",
}

var workflowByToken = invert(workflowTokens)

// ReservedName returns the document token of the keyword, or "" for WorkflowUnknown.
func (k WorkflowKeyword) ReservedName() string {
	return workflowTokens[k]
}

// String returns the document token of the keyword.
func (k WorkflowKeyword) String() string {
	if name, ok := workflowTokens[k]; ok {
		return name
	}
	return "unknown"
}

// LookupWorkflowKeyword returns the keyword of a token. Unknown tokens yield
// WorkflowUnknown and false.
func LookupWorkflowKeyword(token string) (WorkflowKeyword, bool) {
	k, ok := workflowByToken[token]
	return k, ok
}

// WorkflowKeywords returns every workflow keyword in declaration order.
func WorkflowKeywords() []WorkflowKeyword {
	out := make([]WorkflowKeyword, 0, len(workflowTokens))
	for k := WorkflowPegasus; k <= WorkflowChildren; k++ {
		out = append(out, k)
	}
	return out
}
