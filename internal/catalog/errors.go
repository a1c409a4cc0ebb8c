package catalog

import "errors"

// Sentinel errors for repository loading and table construction.
var (
	// ErrRepositoryNotFound indicates the repository path does not exist.
	ErrRepositoryNotFound = errors.New("data repository path does not exist")
	// ErrNoManifest indicates the repository has no qadash.toml.
	ErrNoManifest = errors.New("qadash.toml not found in repository")
	// ErrNotDirectory indicates the repository path is a regular file.
	ErrNotDirectory = errors.New("data repository path is not a directory")
	// ErrColumnLength indicates columns of a table have different lengths.
	ErrColumnLength = errors.New("column length mismatch")
	// ErrDuplicateColumn indicates two columns share a name.
	ErrDuplicateColumn = errors.New("duplicate column")
	// ErrEmptyColumnName indicates a column without a name.
	ErrEmptyColumnName = errors.New("column name is empty")
	// ErrMissingTable indicates a category has no stored table.
	ErrMissingTable = errors.New("table not stored")
	// ErrMissingColumn indicates a table lacks a required column.
	ErrMissingColumn = errors.New("required column missing")
	// ErrFlagNotBool indicates a published flag is not a boolean column.
	ErrFlagNotBool = errors.New("flag is not a boolean column")
	// ErrNoMetrics indicates a table has nothing to plot.
	ErrNoMetrics = errors.New("table has no metric columns")
)

// RepositoryError records a failure to open or read a data repository.
type RepositoryError struct {
	Path string
	Err  error
}

// Error returns the failure prefixed with the repository path.
func (e *RepositoryError) Error() string {
	return "repository " + e.Path + ": " + e.Err.Error()
}

// Unwrap returns the underlying error for use with errors.Is/As.
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// ValidationError records a problem with one table of a repository.
type ValidationError struct {
	Category Category
	Dataset  string
	Field    string
	Err      error
}

// Error returns a human-readable string naming the table and field.
func (e *ValidationError) Error() string {
	msg := string(e.Category) + "/" + e.Dataset
	if e.Field != "" {
		msg += " " + e.Field
	}
	return msg + ": " + e.Err.Error()
}

// Unwrap returns the underlying error for use with errors.Is/As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
