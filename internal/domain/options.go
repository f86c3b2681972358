package domain

// CommonOptions contains shared flags for strategies and orchestration.
type CommonOptions struct {
	Verbose bool
	DryRun  bool
	Quiet   bool
}

// DefaultCommonOptions returns CommonOptions with default values.
func DefaultCommonOptions() CommonOptions {
	return CommonOptions{}
}
