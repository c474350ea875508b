package bindings

import (
	"context"
	"fmt"
	"maps"
	"strings"

	"github.com/robbyt/go-ijmacro/macro"
	"github.com/robbyt/go-ijmacro/macro/array"
	"github.com/robbyt/go-ijmacro/results"
)

func (b *binder) functions() map[string]Func {
	fns := map[string]Func{
		"run": func(ctx context.Context, args Args) (any, error) {
			r := args.reader("run")
			r.Max(2)
			cmd, opts := r.String(0), r.StringOr(1, "")
			if err := r.Err(); err != nil {
				return nil, err
			}
			return none(b.s.Run(ctx, cmd, opts))
		},
		"close": func(ctx context.Context, args Args) (any, error) {
			r := args.reader("close")
			r.Max(1)
			pattern := r.StringOr(0, "")
			if err := r.Err(); err != nil {
				return nil, err
			}
			return none(b.s.Close(ctx, pattern))
		},
		"roiManager": func(ctx context.Context, args Args) (any, error) {
			r := args.reader("roiManager")
			r.Max(2)
			cmd := r.String(0)
			var param any = ""
			if r.Len() > 1 {
				param = r.Any(1)
			}
			if err := r.Err(); err != nil {
				return nil, err
			}
			return b.s.RoiManager(ctx, cmd, param)
		},
		"getPixel": func(_ context.Context, args Args) (any, error) {
			r := args.reader("getPixel")
			r.Max(2)
			if len(args) == 1 {
				i := r.Int(0)
				if err := r.Err(); err != nil {
					return nil, err
				}
				return b.s.GetPixelAt(i)
			}
			x, y := r.Float(0), r.Float(1)
			if err := r.Err(); err != nil {
				return nil, err
			}
			return b.s.GetPixel(x, y)
		},
		"setPixel": func(_ context.Context, args Args) (any, error) {
			r := args.reader("setPixel")
			r.Max(3)
			x, y, v := r.Int(0), r.Int(1), r.Float(2)
			if err := r.Err(); err != nil {
				return nil, err
			}
			return none(b.s.SetPixel(x, y, v))
		},
		"changeValues": func(ctx context.Context, args Args) (any, error) {
			r := args.reader("changeValues")
			r.Max(3)
			low, high, v := r.Float(0), r.Float(1), r.Float(2)
			if err := r.Err(); err != nil {
				return nil, err
			}
			return none(b.s.ChangeValues(ctx, low, high, v))
		},
		"setAutoThreshold": func(_ context.Context, args Args) (any, error) {
			r := args.reader("setAutoThreshold")
			r.Max(1)
			method := r.StringOr(0, "")
			if err := r.Err(); err != nil {
				return nil, err
			}
			return none(b.s.SetAutoThreshold(method))
		},
		"getThreshold": noArgs("getThreshold", func(context.Context) (any, error) {
			lower, upper, err := b.s.GetThreshold()
			if err != nil {
				return nil, err
			}
			return Tuple{lower, upper}, nil
		}),
		"setThreshold": func(_ context.Context, args Args) (any, error) {
			r := args.reader("setThreshold")
			r.Max(3)
			lower, upper := r.Float(0), r.Float(1)
			if err := r.Err(); err != nil {
				return nil, err
			}
			return none(b.s.SetThreshold(lower, upper))
		},
		"resetThreshold": noArgs("resetThreshold", func(context.Context) (any, error) {
			return none(b.s.ResetThreshold())
		}),
		"newImage": func(_ context.Context, args Args) (any, error) {
			r := args.reader("newImage")
			r.Max(7)
			title, typ, w, h := r.String(0), r.String(1), r.Int(2), r.Int(3)
			var depth []int
			for i := 4; i < r.Len(); i++ {
				depth = append(depth, r.Int(i))
			}
			if err := r.Err(); err != nil {
				return nil, err
			}
			_, err := b.s.NewImage(title, typ, w, h, depth...)
			return none(err)
		},
		"nImages": noArgs("nImages", func(context.Context) (any, error) {
			return b.s.NImages(), nil
		}),
		"getWidth": noArgs("getWidth", func(context.Context) (any, error) {
			return b.s.GetWidth()
		}),
		"getHeight": noArgs("getHeight", func(context.Context) (any, error) {
			return b.s.GetHeight()
		}),
		"getTitle": noArgs("getTitle", func(context.Context) (any, error) {
			return b.s.GetTitle()
		}),
		"getImageID": noArgs("getImageID", func(context.Context) (any, error) {
			return b.s.GetImageID()
		}),
		"bitDepth": noArgs("bitDepth", func(context.Context) (any, error) {
			return b.s.BitDepth()
		}),
		"calibrate": func(_ context.Context, args Args) (any, error) {
			r := args.reader("calibrate")
			r.Max(1)
			v := r.Float(0)
			if err := r.Err(); err != nil {
				return nil, err
			}
			return b.s.Calibrate(v)
		},
		"selectImage": func(_ context.Context, args Args) (any, error) {
			r := args.reader("selectImage")
			r.Max(1)
			v := r.Any(0)
			if err := r.Err(); err != nil {
				return nil, err
			}
			if n, ok := v.(int64); ok {
				v = int(n)
			}
			return none(b.s.SelectImage(v))
		},
		"makeRectangle": func(_ context.Context, args Args) (any, error) {
			r := args.reader("makeRectangle")
			r.Max(4)
			x, y, w, h := r.Int(0), r.Int(1), r.Int(2), r.Int(3)
			if err := r.Err(); err != nil {
				return nil, err
			}
			return none(b.s.MakeRectangle(x, y, w, h))
		},
		"getSelectionBounds": noArgs("getSelectionBounds", func(context.Context) (any, error) {
			x, y, w, h, err := b.s.GetSelectionBounds()
			if err != nil {
				return nil, err
			}
			return Tuple{x, y, w, h}, nil
		}),
		"selectionType": noArgs("selectionType", func(context.Context) (any, error) {
			return b.s.SelectionType()
		}),
		"print": func(_ context.Context, args Args) (any, error) {
			if len(args) > 0 {
				if f, ok := b.outputFor(args[0]); ok {
					return none(b.s.Print(append([]any{f}, args[1:]...)...))
				}
			}
			return none(b.s.Print(args...))
		},
		"debug": func(ctx context.Context, args Args) (any, error) {
			b.s.Logger().DebugContext(ctx, "debug", "value", fmt.Sprint(args...))
			return nil, nil
		},
		"getInfo": func(_ context.Context, args Args) (any, error) {
			r := args.reader("getInfo")
			r.Max(1)
			key := r.String(0)
			if err := r.Err(); err != nil {
				return nil, err
			}
			switch strings.ToLower(key) {
			case "log":
				return b.s.GetLog(), nil
			case "image.title":
				return b.s.GetTitle()
			}
			return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
		},
		"beep": noArgs("beep", func(context.Context) (any, error) {
			b.s.Beep()
			return nil, nil
		}),
		"autoUpdate": func(_ context.Context, args Args) (any, error) {
			r := args.reader("autoUpdate")
			r.Max(1)
			v := r.Bool(0)
			if err := r.Err(); err != nil {
				return nil, err
			}
			b.s.AutoUpdate(v)
			return nil, nil
		},
		"isAutoUpdate": noArgs("isAutoUpdate", func(context.Context) (any, error) {
			return b.s.IsAutoUpdate(), nil
		}),
		"setFont": func(_ context.Context, args Args) (any, error) {
			r := args.reader("setFont")
			r.Max(3)
			name, size, style := r.String(0), r.Float(1), r.StringOr(2, "")
			if err := r.Err(); err != nil {
				return nil, err
			}
			return none(b.s.SetFont(name, size, style))
		},
		"setColor": b.setColor,
		"setJustification": func(_ context.Context, args Args) (any, error) {
			r := args.reader("setJustification")
			r.Max(1)
			j := r.String(0)
			if err := r.Err(); err != nil {
				return nil, err
			}
			return none(b.s.SetJustification(j))
		},
		"drawString": func(ctx context.Context, args Args) (any, error) {
			r := args.reader("drawString")
			r.Max(4)
			text, x, y := r.String(0), r.Int(1), r.Int(2)
			if err := r.Err(); err != nil {
				return nil, err
			}
			return none(b.s.DrawString(ctx, text, x, y))
		},
		"call": func(ctx context.Context, args Args) (any, error) {
			r := args.reader("call")
			name := r.String(0)
			if err := r.Err(); err != nil {
				return nil, err
			}
			return b.s.Call(ctx, name, r.Rest(1)...)
		},
		"getArgument": noArgs("getArgument", func(context.Context) (any, error) {
			return b.s.GetArgument(), nil
		}),
		"nResults": noArgs("nResults", func(context.Context) (any, error) {
			return b.s.Host().Tables().Results().Size(), nil
		}),
		"getResult": func(_ context.Context, args Args) (any, error) {
			r := args.reader("getResult")
			r.Max(2)
			col, row := r.String(0), r.IntOr(1, -1)
			if err := r.Err(); err != nil {
				return nil, err
			}
			rt := b.s.Host().Tables().Results()
			return rt.Value(col, lastRow(rt, row))
		},
		"getResultString": func(_ context.Context, args Args) (any, error) {
			r := args.reader("getResultString")
			r.Max(2)
			col, row := r.String(0), r.IntOr(1, -1)
			if err := r.Err(); err != nil {
				return nil, err
			}
			rt := b.s.Host().Tables().Results()
			return rt.StringValue(col, lastRow(rt, row))
		},
		"setResult": func(_ context.Context, args Args) (any, error) {
			r := args.reader("setResult")
			r.Max(3)
			col, row, v := r.String(0), r.Int(1), r.Any(2)
			if err := r.Err(); err != nil {
				return nil, err
			}
			return none(b.s.Host().Tables().Results().SetValue(col, row, v))
		},
		"updateResults": noArgs("updateResults", func(context.Context) (any, error) {
			return nil, nil
		}),
		"d2s": func(_ context.Context, args Args) (any, error) {
			r := args.reader("d2s")
			r.Max(2)
			n, d := r.Float(0), r.Int(1)
			if err := r.Err(); err != nil {
				return nil, err
			}
			return macro.D2S(n, d), nil
		},
		"charCodeAt": func(_ context.Context, args Args) (any, error) {
			r := args.reader("charCodeAt")
			r.Max(2)
			str, i := r.String(0), r.Int(1)
			if err := r.Err(); err != nil {
				return nil, err
			}
			return macro.CharCodeAt(str, i)
		},
		"fromCharCode": func(_ context.Context, args Args) (any, error) {
			r := args.reader("fromCharCode")
			codes := make([]int, r.Len())
			for i := range codes {
				codes[i] = r.Int(i)
			}
			if err := r.Err(); err != nil {
				return nil, err
			}
			return macro.FromCharCode(codes...)
		},
		"lengthOf": func(_ context.Context, args Args) (any, error) {
			r := args.reader("lengthOf")
			r.Max(1)
			v := r.Any(0)
			if err := r.Err(); err != nil {
				return nil, err
			}
			return macro.LengthOf(v)
		},
		"newArray": func(_ context.Context, args Args) (any, error) {
			return macro.NewArray(args...), nil
		},
		"toString": func(_ context.Context, args Args) (any, error) {
			r := args.reader("toString")
			r.Max(2)
			v, decimals := r.Float(0), r.IntOr(1, -1)
			if err := r.Err(); err != nil {
				return nil, err
			}
			if r.Len() > 1 {
				return macro.D2S(v, decimals), nil
			}
			return array.FormatNumber(v), nil
		},
	}
	maps.Copy(fns, mathFunctions())
	return fns
}

func (b *binder) setColor(_ context.Context, args Args) (any, error) {
	r := args.reader("setColor")
	r.Max(3)
	if r.Len() == 3 {
		red, green, blue := r.Int(0), r.Int(1), r.Int(2)
		if err := r.Err(); err != nil {
			return nil, err
		}
		return none(b.s.SetColorRGB(red, green, blue))
	}
	v := r.Any(0)
	if err := r.Err(); err != nil {
		return nil, err
	}
	if name, ok := v.(string); ok {
		return none(b.s.SetColor(name))
	}
	f := r.Float(0)
	if err := r.Err(); err != nil {
		return nil, err
	}
	b.s.SetColorValue(f)
	return nil, nil
}

// lastRow maps a negative row to the last row of t.
func lastRow(t *results.Table, row int) int {
	if row < 0 {
		return t.Size() - 1
	}
	return row
}
