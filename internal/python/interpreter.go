package python

import (
	"os"
	"os/exec"
	"strings"
)

// InterpreterSource records where the base interpreter came from.
type InterpreterSource string

const (
	InterpreterSourceExplicit InterpreterSource = "explicit"
	InterpreterSourceEnv      InterpreterSource = "env:ENVMEDIC_PYTHON"
	InterpreterSourcePath     InterpreterSource = "path"
)

// lookPath is a test seam over exec.LookPath.
var lookPath = exec.LookPath

// ResolveInterpreter resolves the base Python interpreter used to create the
// virtual environment.
//
// Precedence:
//  1. provided (if non-empty; the --python flag)
//  2. ENVMEDIC_PYTHON env var
//  3. python3, then python, on PATH
//
// Returning ("", source, nil) means no interpreter was found; the caller owns
// the error message.
func ResolveInterpreter(provided string) (path string, source InterpreterSource, err error) {
	if p := strings.TrimSpace(provided); p != "" {
		return p, InterpreterSourceExplicit, nil
	}

	if env := strings.TrimSpace(os.Getenv("ENVMEDIC_PYTHON")); env != "" {
		return env, InterpreterSourceEnv, nil
	}

	for _, candidate := range []string{"python3", "python"} {
		p, lookErr := lookPath(candidate)
		if lookErr != nil {
			continue
		}
		return p, InterpreterSourcePath, nil
	}
	return "", "", nil
}
