package bindings

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/robbyt/go-ijmacro/macro/array"
	"github.com/robbyt/go-ijmacro/macro/file"
	"github.com/robbyt/go-ijmacro/macro/fit"
	"github.com/robbyt/go-ijmacro/results"
)

func (b *binder) modules() map[string]*Module {
	return map[string]*Module{
		"Array":  b.arrayModule(),
		"Dialog": b.dialogModule(),
		"File":   b.fileModule(),
		"Fit":    b.fitModule(),
		"Ext":    b.extModule(),
		"Table":  b.tableModule(),
	}
}

var inPlaceArray = map[string]bool{"fill": true, "reverse": true, "rotate": true, "sort": true}

func (b *binder) arrayModule() *Module {
	return &Module{Name: "Array", InPlace: inPlaceArray, Funcs: map[string]Func{
		"concat": func(_ context.Context, args Args) (any, error) {
			return array.Concat(args...), nil
		},
		"copy": func(_ context.Context, args Args) (any, error) {
			r := args.reader("Array.copy")
			r.Max(1)
			a := r.List(0)
			if err := r.Err(); err != nil {
				return nil, err
			}
			return array.Copy(a), nil
		},
		"deleteValue": func(_ context.Context, args Args) (any, error) {
			r := args.reader("Array.deleteValue")
			r.Max(2)
			a, v := r.List(0), r.Any(1)
			if err := r.Err(); err != nil {
				return nil, err
			}
			return array.DeleteValue(a, v), nil
		},
		"deleteIndex": func(_ context.Context, args Args) (any, error) {
			r := args.reader("Array.deleteIndex")
			r.Max(2)
			a, i := r.List(0), r.Int(1)
			if err := r.Err(); err != nil {
				return nil, err
			}
			return array.DeleteIndex(a, i)
		},
		"fill": func(_ context.Context, args Args) (any, error) {
			r := args.reader("Array.fill")
			r.Max(2)
			a, v := r.List(0), r.Any(1)
			if err := r.Err(); err != nil {
				return nil, err
			}
			return array.Fill(a, v), nil
		},
		"findMaxima": extrema("Array.findMaxima", array.FindMaxima),
		"findMinima": extrema("Array.findMinima", array.FindMinima),
		"fourier": func(_ context.Context, args Args) (any, error) {
			r := args.reader("Array.fourier")
			r.Max(2)
			a, window := r.Floats(0), r.StringOr(1, array.WindowNone)
			if err := r.Err(); err != nil {
				return nil, err
			}
			return array.Fourier(a, window)
		},
		"getSequence": func(_ context.Context, args Args) (any, error) {
			r := args.reader("Array.getSequence")
			r.Max(1)
			n := r.Int(0)
			if err := r.Err(); err != nil {
				return nil, err
			}
			return array.GetSequence(n), nil
		},
		"getStatistics": func(_ context.Context, args Args) (any, error) {
			r := args.reader("Array.getStatistics")
			r.Max(1)
			a := r.Floats(0)
			if err := r.Err(); err != nil {
				return nil, err
			}
			lo, hi, mean, sd, err := array.GetStatistics(a)
			if err != nil {
				return nil, err
			}
			return Tuple{lo, hi, mean, sd}, nil
		},
		"print": func(_ context.Context, args Args) (any, error) {
			r := args.reader("Array.print")
			r.Max(1)
			a := r.List(0)
			if err := r.Err(); err != nil {
				return nil, err
			}
			return none(b.s.Print(array.Format(a)))
		},
		"rankPositions": func(_ context.Context, args Args) (any, error) {
			r := args.reader("Array.rankPositions")
			r.Max(1)
			a := r.List(0)
			if err := r.Err(); err != nil {
				return nil, err
			}
			return array.RankPositions(a)
		},
		"resample": func(_ context.Context, args Args) (any, error) {
			r := args.reader("Array.resample")
			r.Max(2)
			a, n := r.Floats(0), r.Int(1)
			if err := r.Err(); err != nil {
				return nil, err
			}
			return array.Resample(a, n)
		},
		"reverse": func(_ context.Context, args Args) (any, error) {
			r := args.reader("Array.reverse")
			r.Max(1)
			a := r.List(0)
			if err := r.Err(); err != nil {
				return nil, err
			}
			return array.Reverse(a), nil
		},
		"show": b.arrayShow,
		"slice": func(_ context.Context, args Args) (any, error) {
			r := args.reader("Array.slice")
			r.Max(3)
			a := r.List(0)
			start, stop := r.Int(1), r.IntOr(2, len(a))
			if err := r.Err(); err != nil {
				return nil, err
			}
			return array.Slice(a, start, stop), nil
		},
		"sort": func(_ context.Context, args Args) (any, error) {
			r := args.reader("Array.sort")
			r.Max(1)
			a := r.List(0)
			if err := r.Err(); err != nil {
				return nil, err
			}
			return array.Sort(a)
		},
		"trim": func(_ context.Context, args Args) (any, error) {
			r := args.reader("Array.trim")
			r.Max(2)
			a, n := r.List(0), r.Int(1)
			if err := r.Err(); err != nil {
				return nil, err
			}
			return array.Trim(a, n), nil
		},
		"rotate": func(_ context.Context, args Args) (any, error) {
			r := args.reader("Array.rotate")
			r.Max(2)
			a, d := r.List(0), r.Int(1)
			if err := r.Err(); err != nil {
				return nil, err
			}
			return array.Rotate(a, d), nil
		},
		"getVertexAngles": func(_ context.Context, args Args) (any, error) {
			r := args.reader("Array.getVertexAngles")
			r.Max(3)
			x, y, arm := r.Floats(0), r.Floats(1), r.Int(2)
			if err := r.Err(); err != nil {
				return nil, err
			}
			return array.GetVertexAngles(x, y, arm)
		},
	}}
}

func extrema(name string, find func([]float64, float64, int) ([]int, error)) Func {
	return func(_ context.Context, args Args) (any, error) {
		r := args.reader(name)
		r.Max(3)
		a, tol, edge := r.Floats(0), r.Float(1), r.IntOr(2, array.ExcludeEdges)
		if err := r.Err(); err != nil {
			return nil, err
		}
		return find(a, tol, edge)
	}
}

// arrayShow takes an optional title followed by arrays. A map argument names its
// columns.
func (b *binder) arrayShow(_ context.Context, args Args) (any, error) {
	title := ""
	if len(args) > 0 {
		if s, ok := args[0].(string); ok {
			title, args = s, args[1:]
		}
	}
	var cols []array.Column
	for i, a := range args {
		switch v := a.(type) {
		case []any:
			cols = append(cols, array.Column{Values: v})
		case map[string]any:
			for _, name := range slices.Sorted(maps.Keys(v)) {
				values, ok := v[name].([]any)
				if !ok {
					return nil, fmt.Errorf("%w: Array.show column %q is not an array", ErrArgument, name)
				}
				cols = append(cols, array.Column{Name: name, Values: values})
			}
		default:
			return nil, fmt.Errorf("%w: Array.show argument %d must be an array, got %T", ErrArgument, i+1, a)
		}
	}
	_, err := array.Show(b.s.Host().Tables(), title, cols...)
	return none(err)
}

func (b *binder) dialogModule() *Module {
	// call reads arguments for a builder; the dialog itself is resolved inside fn.
	call := func(name string, n int, fn func(r *reader) error) Func {
		return func(_ context.Context, args Args) (any, error) {
			r := args.reader("Dialog." + name)
			r.Max(n)
			return none(fn(r))
		}
	}
	return &Module{Name: "Dialog", Funcs: map[string]Func{
		"create": func(_ context.Context, args Args) (any, error) {
			r := args.reader("Dialog.create")
			r.Max(1)
			title := r.String(0)
			if err := r.Err(); err != nil {
				return nil, err
			}
			_, err := b.s.CreateDialog(title)
			return none(err)
		},
		"createNonBlocking": func(_ context.Context, args Args) (any, error) {
			r := args.reader("Dialog.createNonBlocking")
			r.Max(1)
			title := r.String(0)
			if err := r.Err(); err != nil {
				return nil, err
			}
			_, err := b.s.CreateNonBlockingDialog(title)
			return none(err)
		},
		"addMessage": call("addMessage", 3, func(r *reader) error {
			text, size, color := r.String(0), r.FloatOr(1, 0), r.StringOr(2, "")
			if err := r.Err(); err != nil {
				return err
			}
			d, err := b.s.Dialog()
			if err != nil {
				return err
			}
			return d.AddMessage(text, size, color)
		}),
		"addString": call("addString", 3, func(r *reader) error {
			label, initial, cols := r.String(0), r.String(1), r.IntOr(2, 8)
			if err := r.Err(); err != nil {
				return err
			}
			d, err := b.s.Dialog()
			if err != nil {
				return err
			}
			d.AddString(label, initial, cols)
			return nil
		}),
		"addNumber": call("addNumber", 5, func(r *reader) error {
			label, def := r.String(0), r.Float(1)
			decimals, cols, units := r.IntOr(2, -1), r.IntOr(3, 6), r.StringOr(4, "")
			if err := r.Err(); err != nil {
				return err
			}
			d, err := b.s.Dialog()
			if err != nil {
				return err
			}
			d.AddNumber(label, def, decimals, cols, units)
			return nil
		}),
		"addSlider": call("addSlider", 4, func(r *reader) error {
			label, lo, hi, def := r.String(0), r.Float(1), r.Float(2), r.Float(3)
			if err := r.Err(); err != nil {
				return err
			}
			d, err := b.s.Dialog()
			if err != nil {
				return err
			}
			return d.AddSlider(label, lo, hi, def)
		}),
		"addCheckbox": call("addCheckbox", 2, func(r *reader) error {
			label, def := r.String(0), r.Bool(1)
			if err := r.Err(); err != nil {
				return err
			}
			d, err := b.s.Dialog()
			if err != nil {
				return err
			}
			d.AddCheckbox(label, def)
			return nil
		}),
		"addCheckboxGroup": call("addCheckboxGroup", 4, func(r *reader) error {
			rows, cols, labels, defs := r.Int(0), r.Int(1), r.Strings(2), r.Bools(3)
			if err := r.Err(); err != nil {
				return err
			}
			d, err := b.s.Dialog()
			if err != nil {
				return err
			}
			return d.AddCheckboxGroup(rows, cols, labels, defs)
		}),
		"addRadioButtonGroup": call("addRadioButtonGroup", 5, func(r *reader) error {
			label, items := r.String(0), r.Strings(1)
			rows, cols, def := r.Int(2), r.Int(3), r.String(4)
			if err := r.Err(); err != nil {
				return err
			}
			d, err := b.s.Dialog()
			if err != nil {
				return err
			}
			return d.AddRadioButtonGroup(label, items, rows, cols, def)
		}),
		"addChoice": call("addChoice", 3, func(r *reader) error {
			label, items := r.String(0), r.Strings(1)
			def := ""
			if len(items) > 0 {
				def = items[0]
			}
			def = r.StringOr(2, def)
			if err := r.Err(); err != nil {
				return err
			}
			d, err := b.s.Dialog()
			if err != nil {
				return err
			}
			return d.AddChoice(label, items, def)
		}),
		"addDirectory": call("addDirectory", 2, func(r *reader) error {
			label, def := r.String(0), r.StringOr(1, "")
			if err := r.Err(); err != nil {
				return err
			}
			d, err := b.s.Dialog()
			if err != nil {
				return err
			}
			d.AddDirectory(label, def)
			return nil
		}),
		"addFile": call("addFile", 2, func(r *reader) error {
			label, def := r.String(0), r.StringOr(1, "")
			if err := r.Err(); err != nil {
				return err
			}
			d, err := b.s.Dialog()
			if err != nil {
				return err
			}
			d.AddFile(label, def)
			return nil
		}),
		"addHelp": call("addHelp", 1, func(r *reader) error {
			help := r.String(0)
			if err := r.Err(); err != nil {
				return err
			}
			d, err := b.s.Dialog()
			if err != nil {
				return err
			}
			d.AddHelp(help)
			return nil
		}),
		"show": func(ctx context.Context, args Args) (any, error) {
			if len(args) > 0 {
				return nil, fmt.Errorf("%w: Dialog.show() takes no arguments", ErrTooManyArgs)
			}
			d, err := b.s.Dialog()
			if err != nil {
				return nil, err
			}
			return none(d.Show(ctx))
		},
		"wasCanceled": b.dialogGetter("wasCanceled", func(d dialogReader) (any, error) {
			return d.WasCanceled(), nil
		}),
		"getString": b.dialogGetter("getString", func(d dialogReader) (any, error) {
			return d.GetString()
		}),
		"getNumber": b.dialogGetter("getNumber", func(d dialogReader) (any, error) {
			return d.GetNumber()
		}),
		"getCheckbox": b.dialogGetter("getCheckbox", func(d dialogReader) (any, error) {
			return d.GetCheckbox()
		}),
		"getChoice": b.dialogGetter("getChoice", func(d dialogReader) (any, error) {
			return d.GetChoice()
		}),
		"getRadioButton": b.dialogGetter("getRadioButton", func(d dialogReader) (any, error) {
			return d.GetRadioButton()
		}),
	}}
}

type dialogReader interface {
	WasCanceled() bool
	GetString() (string, error)
	GetNumber() (float64, error)
	GetCheckbox() (bool, error)
	GetChoice() (string, error)
	GetRadioButton() (string, error)
}

func (b *binder) dialogGetter(name string, get func(dialogReader) (any, error)) Func {
	return noArgs("Dialog."+name, func(context.Context) (any, error) {
		d, err := b.s.Dialog()
		if err != nil {
			return nil, err
		}
		return get(d)
	})
}

// handlePrefix marks the string File.open returns. print(f, ...) and File.close(f)
// recognise it.
const handlePrefix = "~file:"

func handleFor(f *file.OutputFile) string {
	return handlePrefix + f.Path() + "~"
}

// outputFor resolves a handle to the session's open output file.
func (b *binder) outputFor(v any) (*file.OutputFile, bool) {
	s, ok := v.(string)
	if !ok || !strings.HasPrefix(s, handlePrefix) {
		return nil, false
	}
	f, err := b.s.OutputFile()
	if err != nil || handleFor(f) != s {
		return nil, false
	}
	return f, true
}

func (b *binder) fileModule() *Module {
	files := func() *file.Files { return b.s.Files() }
	pathFn := func(name string, fn func(path string) (any, error)) Func {
		return func(_ context.Context, args Args) (any, error) {
			r := args.reader("File." + name)
			r.Max(1)
			p := r.String(0)
			if err := r.Err(); err != nil {
				return nil, err
			}
			return fn(p)
		}
	}
	return &Module{Name: "File", Funcs: map[string]Func{
		"separator": noArgs("File.separator", func(context.Context) (any, error) {
			return files().Separator(), nil
		}),
		"exists":      pathFn("exists", func(p string) (any, error) { return files().Exists(p), nil }),
		"isDirectory": pathFn("isDirectory", func(p string) (any, error) { return files().IsDirectory(p), nil }),
		"isFile":      pathFn("isFile", func(p string) (any, error) { return files().IsFile(p), nil }),
		"length":      pathFn("length", func(p string) (any, error) { return files().Length(p), nil }),
		"lastModified": pathFn("lastModified", func(p string) (any, error) {
			return files().LastModified(p), nil
		}),
		"dateLastModified": pathFn("dateLastModified", func(p string) (any, error) {
			return files().DateLastModified(p), nil
		}),
		"getName": pathFn("getName", func(p string) (any, error) { return file.GetName(p), nil }),
		"getNameWithoutExtension": pathFn("getNameWithoutExtension", func(p string) (any, error) {
			return file.GetNameWithoutExtension(p), nil
		}),
		"getDirectory": pathFn("getDirectory", func(p string) (any, error) { return file.GetDirectory(p), nil }),
		"getParent":    pathFn("getParent", func(p string) (any, error) { return file.GetParent(p), nil }),
		"makeDirectory": pathFn("makeDirectory", func(p string) (any, error) {
			return none(files().MakeDirectory(p))
		}),
		"delete": pathFn("delete", func(p string) (any, error) {
			return files().Delete(p) == nil, nil
		}),
		"openAsString": pathFn("openAsString", func(p string) (any, error) {
			return files().OpenAsString(p)
		}),
		"getFileList": pathFn("getFileList", func(p string) (any, error) {
			names, err := files().List(p)
			if err != nil {
				return nil, err
			}
			out := make([]any, len(names))
			for i, n := range names {
				out[i] = n
			}
			return out, nil
		}),
		"openAsRawString": func(_ context.Context, args Args) (any, error) {
			r := args.reader("File.openAsRawString")
			r.Max(2)
			p, n := r.String(0), r.IntOr(1, 5000)
			if err := r.Err(); err != nil {
				return nil, err
			}
			return files().OpenAsRawString(p, n)
		},
		"rename": twoStrings("File.rename", func(a, c string) (any, error) {
			return files().Rename(a, c) == nil, nil
		}),
		"copy": twoStrings("File.copy", func(a, c string) (any, error) {
			return none(files().Copy(a, c))
		}),
		"saveString": twoStrings("File.saveString", func(s, p string) (any, error) {
			return none(files().SaveString(s, p))
		}),
		"append": twoStrings("File.append", func(s, p string) (any, error) {
			return none(files().Append(s, p))
		}),
		"open": func(_ context.Context, args Args) (any, error) {
			r := args.reader("File.open")
			r.Max(2)
			p, defaultName := r.StringOr(0, ""), r.StringOr(1, "Untitled.txt")
			if err := r.Err(); err != nil {
				return nil, err
			}
			f, err := b.s.OpenFile(p, defaultName)
			if err != nil {
				return nil, err
			}
			return handleFor(f), nil
		},
		"close": func(_ context.Context, args Args) (any, error) {
			r := args.reader("File.close")
			r.Max(1)
			v := r.Any(0)
			if err := r.Err(); err != nil {
				return nil, err
			}
			f, ok := b.outputFor(v)
			if !ok {
				return nil, fmt.Errorf("%w: %v", ErrNotAHandle, v)
			}
			return none(b.s.CloseFile(f))
		},
	}}
}

func twoStrings(name string, fn func(a, b string) (any, error)) Func {
	return func(_ context.Context, args Args) (any, error) {
		r := args.reader(name)
		r.Max(2)
		a, b := r.String(0), r.String(1)
		if err := r.Err(); err != nil {
			return nil, err
		}
		return fn(a, b)
	}
}

func (b *binder) fitModule() *Module {
	current := func(name string, fn func(r *reader, res *fit.Result) (any, error)) Func {
		return func(_ context.Context, args Args) (any, error) {
			r := args.reader("Fit." + name)
			res, err := b.s.Fit()
			if err != nil {
				return nil, err
			}
			out, err := fn(r, res)
			if err != nil {
				return nil, err
			}
			return out, r.Err()
		}
	}
	return &Module{Name: "Fit", Funcs: map[string]Func{
		"doFit": func(ctx context.Context, args Args) (any, error) {
			r := args.reader("Fit.doFit")
			r.Max(4)
			eq, x, y := r.String(0), r.Floats(1), r.Floats(2)
			var guesses []float64
			if r.Len() > 3 {
				guesses = r.Floats(3)
			}
			if err := r.Err(); err != nil {
				return nil, err
			}
			_, err := b.s.DoFit(ctx, eq, x, y, guesses)
			return none(err)
		},
		"p": current("p", func(r *reader, res *fit.Result) (any, error) {
			r.Max(1)
			i := r.Int(0)
			if err := r.Err(); err != nil {
				return nil, err
			}
			return res.P(i)
		}),
		"nParams": current("nParams", func(r *reader, res *fit.Result) (any, error) {
			r.Max(0)
			return res.NParams(), nil
		}),
		"f": current("f", func(r *reader, res *fit.Result) (any, error) {
			r.Max(1)
			x := r.Float(0)
			if err := r.Err(); err != nil {
				return nil, err
			}
			return res.F(x), nil
		}),
		"rSquared": current("rSquared", func(r *reader, res *fit.Result) (any, error) {
			r.Max(0)
			return res.RSquared(), nil
		}),
		"plot": current("plot", func(r *reader, res *fit.Result) (any, error) {
			r.Max(1)
			path := r.String(0)
			if err := r.Err(); err != nil {
				return nil, err
			}
			return none(res.Plot(path))
		}),
		"logResults": current("logResults", func(r *reader, res *fit.Result) (any, error) {
			r.Max(0)
			return none(b.s.Print(res.String()))
		}),
		"nEquations": noArgs("Fit.nEquations", func(context.Context) (any, error) {
			return fit.NumEquations(), nil
		}),
		"getEquation": func(_ context.Context, args Args) (any, error) {
			r := args.reader("Fit.getEquation")
			r.Max(1)
			i := r.Int(0)
			if err := r.Err(); err != nil {
				return nil, err
			}
			name, formula, err := fit.GetEquation(i)
			if err != nil {
				return nil, err
			}
			return Tuple{name, formula}, nil
		},
	}}
}

// extModule exposes install and call; once an extension is installed its declared
// functions also resolve as attributes, e.g. Ext.getVersion().
func (b *binder) extModule() *Module {
	return &Module{
		Name: "Ext",
		Funcs: map[string]Func{
			"install": func(ctx context.Context, args Args) (any, error) {
				r := args.reader("Ext.install")
				r.Max(1)
				name := r.String(0)
				if err := r.Err(); err != nil {
					return nil, err
				}
				_, err := b.s.Install(ctx, name)
				return none(err)
			},
			"call": func(ctx context.Context, args Args) (any, error) {
				r := args.reader("Ext.call")
				name := r.String(0)
				if err := r.Err(); err != nil {
					return nil, err
				}
				return b.s.CallExtension(ctx, name, r.Rest(1)...)
			},
		},
		Lookup: func(name string) (Func, bool) {
			e, err := b.s.Extension()
			if err != nil {
				return nil, false
			}
			for _, fn := range e.Functions() {
				if fn == name {
					return func(ctx context.Context, args Args) (any, error) {
						return b.s.CallExtension(ctx, name, args...)
					}, true
				}
			}
			return nil, false
		},
	}
}

// table resolves an optional trailing title argument; the main Results table is the
// default.
func (b *binder) table(title string) (*results.Table, error) {
	tables := b.s.Host().Tables()
	if title == "" || title == results.DefaultTitle {
		return tables.Results(), nil
	}
	t, ok := tables.Get(title)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, title)
	}
	return t, nil
}

func (b *binder) tableModule() *Module {
	return &Module{Name: "Table", Funcs: map[string]Func{
		"create": func(_ context.Context, args Args) (any, error) {
			r := args.reader("Table.create")
			r.Max(1)
			title := r.String(0)
			if err := r.Err(); err != nil {
				return nil, err
			}
			if title == results.DefaultTitle {
				b.s.Host().Tables().Results().Reset()
				return nil, nil
			}
			b.s.Host().Tables().Show(results.New(title))
			return nil, nil
		},
		"reset": func(_ context.Context, args Args) (any, error) {
			r := args.reader("Table.reset")
			r.Max(1)
			t, err := b.table(r.StringOr(0, ""))
			if err != nil {
				return nil, err
			}
			t.Reset()
			return nil, r.Err()
		},
		"size": func(_ context.Context, args Args) (any, error) {
			r := args.reader("Table.size")
			r.Max(1)
			t, err := b.table(r.StringOr(0, ""))
			if err != nil {
				return nil, err
			}
			return t.Size(), r.Err()
		},
		"headings": func(_ context.Context, args Args) (any, error) {
			r := args.reader("Table.headings")
			r.Max(1)
			t, err := b.table(r.StringOr(0, ""))
			if err != nil {
				return nil, err
			}
			headings := t.Headings()
			out := make([]any, len(headings))
			for i, h := range headings {
				out[i] = h
			}
			return out, r.Err()
		},
		"get": func(_ context.Context, args Args) (any, error) {
			r := args.reader("Table.get")
			r.Max(3)
			col, row, title := r.String(0), r.Int(1), r.StringOr(2, "")
			if err := r.Err(); err != nil {
				return nil, err
			}
			t, err := b.table(title)
			if err != nil {
				return nil, err
			}
			return t.Value(col, row)
		},
		"getString": func(_ context.Context, args Args) (any, error) {
			r := args.reader("Table.getString")
			r.Max(3)
			col, row, title := r.String(0), r.Int(1), r.StringOr(2, "")
			if err := r.Err(); err != nil {
				return nil, err
			}
			t, err := b.table(title)
			if err != nil {
				return nil, err
			}
			return t.StringValue(col, row)
		},
		"set": func(_ context.Context, args Args) (any, error) {
			r := args.reader("Table.set")
			r.Max(4)
			col, row, v, title := r.String(0), r.Int(1), r.Any(2), r.StringOr(3, "")
			if err := r.Err(); err != nil {
				return nil, err
			}
			t, err := b.table(title)
			if err != nil {
				return nil, err
			}
			return none(t.SetValue(col, row, v))
		},
		"getColumn": func(_ context.Context, args Args) (any, error) {
			r := args.reader("Table.getColumn")
			r.Max(2)
			col, title := r.String(0), r.StringOr(1, "")
			if err := r.Err(); err != nil {
				return nil, err
			}
			t, err := b.table(title)
			if err != nil {
				return nil, err
			}
			values, ok := t.Column(col)
			if !ok {
				return nil, fmt.Errorf("%w: %q", results.ErrNoSuchColumn, col)
			}
			return values, nil
		},
		"deleteRows": func(_ context.Context, args Args) (any, error) {
			r := args.reader("Table.deleteRows")
			r.Max(3)
			first, last, title := r.Int(0), r.Int(1), r.StringOr(2, "")
			if err := r.Err(); err != nil {
				return nil, err
			}
			t, err := b.table(title)
			if err != nil {
				return nil, err
			}
			for i := last; i >= first; i-- {
				if err := t.DeleteRow(i); err != nil {
					return nil, err
				}
			}
			return nil, nil
		},
		"update": func(context.Context, Args) (any, error) {
			return nil, nil
		},
		"save": func(ctx context.Context, args Args) (any, error) {
			r := args.reader("Table.save")
			r.Max(2)
			path, title := r.String(0), r.StringOr(1, "")
			if err := r.Err(); err != nil {
				return nil, err
			}
			t, err := b.table(title)
			if err != nil {
				return nil, err
			}
			return none(t.Save(ctx, path))
		},
	}}
}
