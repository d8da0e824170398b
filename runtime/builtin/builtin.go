// Package builtin populates the global entity with the commands the
// shell ships: cd, echo and exit. Everything here goes through the same
// callee machinery user-visible dispatch uses.
package builtin

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/JustAGod1/fosh/runtime/diag"
	"github.com/JustAGod1/fosh/runtime/engine"
)

// ErrExit is returned by the exit builtin's pseudo-execution. The REPL
// loop treats it as a request to terminate.
var ErrExit = errors.New("exit requested")

// Install registers the built-in commands on Global.
func Install(u *engine.Universe) {
	u.Global().
		WithProperty("cd", cdEntity(u)).
		WithProperty("echo", echoEntity(u)).
		WithProperty("exit", exitEntity(u))
}

// cd changes the process working directory. Its result carries status
// and the new path, and the result prototype synthesizes the same shape
// so completion works on the result without running anything.
func cdEntity(u *engine.Universe) *engine.Entity {
	resultShape := func(path string) *engine.Entity {
		return u.MakeEntity("cd").
			WithProperty("status", u.NumberEntity(0)).
			WithProperty("path", u.StringEntity(path))
	}

	return u.MakeEntity("cd").WithCallee(&engine.Callee{
		Arguments: []engine.Argument{{
			Name:        "path",
			Types:       []engine.Type{engine.TypeString},
			Contributor: &FilesContributor{},
		}},
		Dispatch: func(self *engine.Entity, args []*engine.Entity, cfg *engine.ExecConfig) (engine.Execution, error) {
			path := stringArg(args[0])
			node := cfg.Node
			return engine.NewPseudoExecution(cfg, func(*engine.Comms) (*engine.Entity, error) {
				if err := os.Chdir(path); err != nil {
					return nil, diag.Single(node, diag.Execution, "cd: %s", err)
				}
				resolved, err := os.Getwd()
				if err != nil {
					resolved = path
				}
				return resultShape(resolved), nil
			}), nil
		},
		ResultPrototype: func(self *engine.Entity, args []*engine.Entity) *engine.Entity {
			path := ""
			if len(args) == 1 && args[0] != nil {
				path = stringArg(args[0])
			}
			return resultShape(path)
		},
	})
}

// echo writes the string form of its argument to stdout, exercising the
// implicit coercions.
func echoEntity(u *engine.Universe) *engine.Entity {
	return u.MakeEntity("echo").WithCallee(&engine.Callee{
		Arguments: []engine.Argument{{
			Name:  "value",
			Types: []engine.Type{engine.TypeString, engine.TypeNumber, engine.TypeEntity},
		}},
		Dispatch: func(self *engine.Entity, args []*engine.Entity, cfg *engine.ExecConfig) (engine.Execution, error) {
			text := displayText(args[0])
			return engine.NewPseudoExecution(cfg, func(comms *engine.Comms) (*engine.Entity, error) {
				fmt.Fprintln(comms.Stdout, text)
				return u.StatusEntity("echo", 0), nil
			}), nil
		},
		ResultPrototype: func(self *engine.Entity, args []*engine.Entity) *engine.Entity {
			return u.StatusEntity("echo", 0)
		},
	})
}

func exitEntity(u *engine.Universe) *engine.Entity {
	return u.MakeEntity("exit").WithCallee(&engine.Callee{
		Arguments: []engine.Argument{{
			Name:  "status",
			Types: []engine.Type{engine.TypeNumber},
		}},
		Dispatch: func(self *engine.Entity, args []*engine.Entity, cfg *engine.ExecConfig) (engine.Execution, error) {
			return engine.NewPseudoExecution(cfg, func(*engine.Comms) (*engine.Entity, error) {
				return nil, ErrExit
			}), nil
		},
	})
}

func stringArg(entity *engine.Entity) string {
	if v, ok := entity.Implicit(engine.TypeString); ok {
		if s, ok := v.(engine.StringValue); ok {
			return string(s)
		}
	}
	return ""
}

func displayText(entity *engine.Entity) string {
	if v, ok := entity.Implicit(engine.TypeString); ok {
		if s, ok := v.(engine.StringValue); ok {
			return string(s)
		}
	}
	if v, ok := entity.Implicit(engine.TypeNumber); ok {
		return v.Display()
	}
	return entity.Name()
}

// FilesContributor completes filesystem paths: the partial value is
// split at the last /, the directory is listed, and candidates come back
// qualified.
type FilesContributor struct{}

func (FilesContributor) Contribute(partial engine.Value) []engine.Value {
	var s string
	switch v := partial.(type) {
	case engine.StringValue:
		s = string(v)
	case engine.NumberValue:
		s = v.Display()
	default:
		return nil
	}

	dir, prefix := ".", s
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		dir, prefix = s[:i], s[i+1:]
		if dir == "" {
			dir = "/"
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var result []engine.Value
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		qualified := dir + "/" + name
		if strings.HasSuffix(dir, "/") {
			qualified = dir + name
		}
		result = append(result, engine.StringValue(qualified))
	}
	return result
}
