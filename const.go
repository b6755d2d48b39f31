package match

const (
	// Version is the current version of the market simulator
	Version = "v1.0.0"

	// defaultBookCapacity is the initial node arena size of each book.
	defaultBookCapacity = 1024

	// treeIndent is the number of spaces per tree level in book reports.
	treeIndent = 8
)
