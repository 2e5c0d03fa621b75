package installer

import (
	"errors"
	"fmt"
)

// Operation names a top-level command for validation purposes
type Operation string

const (
	OpInstall   Operation = "install"
	OpUninstall Operation = "uninstall"
	OpStatus    Operation = "status"
)

// ErrEnvironment is matched by every EnvironmentError
var ErrEnvironment = errors.New("invalid environment")

// EnvironmentError is a fatal precondition failure detected before anything is modified
type EnvironmentError struct {
	Problem string
	Remedy  string
	Err     error
}

func (e *EnvironmentError) Error() string {
	if e.Remedy == "" {
		return e.Problem
	}
	return e.Problem + "\n" + e.Remedy
}

func (e *EnvironmentError) Unwrap() error {
	return e.Err
}

func (e *EnvironmentError) Is(target error) bool {
	return target == ErrEnvironment
}

// MissingWorkingDirectory is reported when the working directory cannot be resolved
func MissingWorkingDirectory(err error) *EnvironmentError {
	return &EnvironmentError{
		Problem: "Current working directory does not exist or was deleted.",
		Remedy:  "Please cd to a valid directory and try again.",
		Err:     err,
	}
}

// Validate checks the environment for op. Status skips the write check and
// the source check so that it never touches the target.
func (i *Installer) Validate(op Operation) error {
	root := i.ictx.RootDir
	if root == "" {
		return MissingWorkingDirectory(nil)
	}

	isDir, err := i.fs.IsDir(root)
	if err != nil || !isDir {
		return &EnvironmentError{
			Problem: fmt.Sprintf("Target directory does not exist: %s", root),
			Remedy:  "Please cd to a valid directory and try again.",
			Err:     err,
		}
	}

	if err := i.fs.CheckReadable(root); err != nil {
		return &EnvironmentError{
			Problem: fmt.Sprintf("Cannot access current directory: %s", root),
			Remedy:  "Check permissions and try again.",
			Err:     err,
		}
	}

	claudeExists := i.fs.Exists(i.ictx.ClaudeDir)
	if claudeExists {
		isDir, err := i.fs.IsDir(i.ictx.ClaudeDir)
		if err != nil || !isDir {
			return &EnvironmentError{
				Problem: fmt.Sprintf("%s exists but is not a directory.", i.ictx.ClaudeDir),
				Remedy:  "Please remove or rename it and try again.",
				Err:     err,
			}
		}
	}

	if op != OpStatus {
		target := root
		if claudeExists {
			target = i.ictx.ClaudeDir
		}
		if err := i.fs.CheckWritable(target); err != nil {
			return &EnvironmentError{
				Problem: fmt.Sprintf("No write permission in: %s", target),
				Remedy:  "Check permissions and try again.",
				Err:     err,
			}
		}
	}

	if op == OpInstall {
		for _, dir := range []string{i.ictx.SourceHooksDir, i.ictx.SourceRulesDir} {
			isDir, err := i.fs.IsDir(dir)
			if err != nil || !isDir {
				return &EnvironmentError{
					Problem: fmt.Sprintf("Package installation is incomplete: %s is missing.", dir),
					Remedy:  "Reinstall the package, or point --source at its asset directory.",
					Err:     err,
				}
			}
		}
	}

	return nil
}
