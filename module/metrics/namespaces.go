package metrics

// Prometheus metric namespaces
const (
	namespaceStateMachine = "svm"
)

// State machine metric subsystems
const (
	subsystemPipeline  = "pipeline"
	subsystemExecution = "execution"
)
