// Package script runs tengo batch scripts against a loaded project, for bulk
// edits that would be tedious through the preview UI.
package script

import (
	"fmt"
	"os"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/spritepad/anim"
	"github.com/milk9111/spritepad/project"
)

// Run executes the tengo script at path against p. Scripts get a small op
// surface over the animation collection; every mutation goes through the
// same paths the editor uses, so selection and notification rules hold.
//
//	anim_count()                   -> int
//	anim_names()                   -> array of string
//	anim_add()                     -> generated name, "" on collision
//	anim_remove(name)
//	anim_take(index)               -> removed name, undefined when invalid
//	anim_select(index)
//	anim_set_fps(name, fps)        -> bool
//	anim_set_frame_count(name, n)  -> bool
func Run(path string, p *project.Project) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("script: read %s: %w", path, err)
	}

	s := tengo.NewScript(src)
	s.SetImports(stdlib.GetModuleMap("fmt", "text", "math", "times"))

	sys := p.Animations
	fns := map[string]tengo.CallableFunc{
		"anim_count": func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) != 0 {
				return nil, tengo.ErrWrongNumArguments
			}
			return &tengo.Int{Value: int64(sys.Count())}, nil
		},
		"anim_names": func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) != 0 {
				return nil, tengo.ErrWrongNumArguments
			}
			names := make([]tengo.Object, 0, sys.Count())
			for i := 0; i < sys.Count(); i++ {
				names = append(names, &tengo.String{Value: sys.AnimationAt(i).Name})
			}
			return &tengo.Array{Value: names}, nil
		},
		"anim_add": func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) != 0 {
				return nil, tengo.ErrWrongNumArguments
			}
			return &tengo.String{Value: sys.AddNew(p.CanvasWidth, p.CanvasHeight)}, nil
		},
		"anim_remove": func(args ...tengo.Object) (tengo.Object, error) {
			name, err := stringArg(args, 0, 1)
			if err != nil {
				return nil, err
			}
			sys.RemoveByName(name)
			return tengo.UndefinedValue, nil
		},
		"anim_take": func(args ...tengo.Object) (tengo.Object, error) {
			index, err := intArg(args, 0, 1)
			if err != nil {
				return nil, err
			}
			a := sys.TakeAt(index)
			if a == nil {
				return tengo.UndefinedValue, nil
			}
			// Taking can park the selection past the end; scripts have no
			// way to re-select sensibly on their own, so clamp for them.
			if sys.CurrentIndex() >= sys.Count() {
				if sys.Count() > 0 {
					sys.SetCurrentIndex(sys.Count() - 1)
				}
			}
			return &tengo.String{Value: a.Name}, nil
		},
		"anim_select": func(args ...tengo.Object) (tengo.Object, error) {
			index, err := intArg(args, 0, 1)
			if err != nil {
				return nil, err
			}
			sys.SetCurrentIndex(index)
			return tengo.UndefinedValue, nil
		},
		"anim_set_fps": func(args ...tengo.Object) (tengo.Object, error) {
			name, err := stringArg(args, 0, 2)
			if err != nil {
				return nil, err
			}
			fps, err := intArg(args, 1, 2)
			if err != nil {
				return nil, err
			}
			return setField(sys, name, func(a *anim.Animation) { a.FPS = fps }), nil
		},
		"anim_set_frame_count": func(args ...tengo.Object) (tengo.Object, error) {
			name, err := stringArg(args, 0, 2)
			if err != nil {
				return nil, err
			}
			n, err := intArg(args, 1, 2)
			if err != nil {
				return nil, err
			}
			return setField(sys, name, func(a *anim.Animation) { a.FrameCount = n }), nil
		},
	}
	for name, fn := range fns {
		if err := s.Add(name, &tengo.UserFunction{Name: name, Value: fn}); err != nil {
			return fmt.Errorf("script: bind %s: %w", name, err)
		}
	}

	if _, err := s.Run(); err != nil {
		return fmt.Errorf("script: run %s: %w", path, err)
	}
	return nil
}

func setField(sys *anim.System, name string, set func(*anim.Animation)) tengo.Object {
	if !sys.Contains(name) {
		return tengo.FalseValue
	}
	set(sys.ByName(name))
	return tengo.TrueValue
}

func stringArg(args []tengo.Object, i, want int) (string, error) {
	if len(args) != want {
		return "", tengo.ErrWrongNumArguments
	}
	s, ok := tengo.ToString(args[i])
	if !ok {
		return "", tengo.ErrInvalidArgumentType{
			Name: fmt.Sprintf("arg %d", i), Expected: "string", Found: args[i].TypeName(),
		}
	}
	return s, nil
}

func intArg(args []tengo.Object, i, want int) (int, error) {
	if len(args) != want {
		return 0, tengo.ErrWrongNumArguments
	}
	v, ok := tengo.ToInt(args[i])
	if !ok {
		return 0, tengo.ErrInvalidArgumentType{
			Name: fmt.Sprintf("arg %d", i), Expected: "int", Found: args[i].TypeName(),
		}
	}
	return v, nil
}
