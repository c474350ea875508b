package macro

import (
	"context"
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/robbyt/go-ijmacro/host"
	"github.com/robbyt/go-ijmacro/host/memhost"
	"github.com/robbyt/go-ijmacro/macro/dialog"
	"github.com/robbyt/go-ijmacro/macro/ext"
	"github.com/robbyt/go-ijmacro/macro/fit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	opts = append([]Option{WithLogHandler(slog.NewTextHandler(io.Discard, nil))}, opts...)
	s, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return s
}

func newRamp(t *testing.T, s *Session, typ string) host.Image {
	t.Helper()
	img, err := s.NewImage("ramp", typ, 256, 256)
	require.NoError(t, err)
	return img
}

func TestNew(t *testing.T) {
	t.Parallel()
	s := newSession(t, WithArgument("input.tif"))

	_, err := uuid.Parse(s.ID())
	require.NoError(t, err)
	assert.IsType(t, &memhost.Host{}, s.Host())
	assert.Equal(t, "input.tif", s.GetArgument())
	assert.True(t, s.IsAutoUpdate())

	other := newSession(t)
	assert.NotEqual(t, s.ID(), other.ID())

	_, err = New(WithHost(nil))
	require.Error(t, err)
}

func TestScaleCreateIsDeterministic(t *testing.T) {
	t.Parallel()
	s := newSession(t)
	ctx := context.Background()
	newRamp(t, s, "8-bit ramp")

	require.NoError(t, s.Run(ctx, "Scale...", "x=2 y=2 width=512 height=512 interpolation=Bilinear create"))
	w, err := s.GetWidth()
	require.NoError(t, err)
	assert.Equal(t, 512, w)
	title, err := s.GetTitle()
	require.NoError(t, err)
	assert.Equal(t, "ramp-1", title)
	assert.Equal(t, 2, s.NImages())
}

func TestGetPixel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typ  string
		x, y float64
		want float64
	}{
		{"8-bit ramp", 128, 10, 128},
		{"16-bit ramp", 128, 10, 32768},
		{"RGB ramp", 128, 10, float64(128<<16 | 128<<8 | 128)},
		{"32-bit ramp", 128, 10, 0.5},
		{"8-bit ramp", 128.5, 10, 128.5},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			t.Parallel()
			s := newSession(t)
			newRamp(t, s, tt.typ)
			v, err := s.GetPixel(tt.x, tt.y)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, v, 1e-9)
		})
	}

	t.Run("index", func(t *testing.T) {
		t.Parallel()
		s := newSession(t)
		newRamp(t, s, "8-bit ramp")
		v, err := s.GetPixelAt(256 + 128)
		require.NoError(t, err)
		assert.InDelta(t, 128.0, v, 1e-9)

		_, err = s.GetPixelAt(256 * 256)
		require.ErrorIs(t, err, ErrIndexOutOfRange)
		assert.Contains(t, err.Error(), "Index (65536) is outside of the 0-65535 range")
	})

	t.Run("no image", func(t *testing.T) {
		t.Parallel()
		s := newSession(t)
		_, err := s.GetPixel(0, 0)
		require.ErrorIs(t, err, host.ErrNoImage)
	})
}

func TestThreshold(t *testing.T) {
	t.Parallel()
	s := newSession(t)
	newRamp(t, s, "8-bit ramp")

	lower, upper, err := s.GetThreshold()
	require.NoError(t, err)
	assert.InDelta(t, host.NoThreshold, lower, 0)
	assert.InDelta(t, host.NoThreshold, upper, 0)

	require.NoError(t, s.SetAutoThreshold(""))
	lower, upper, err = s.GetThreshold()
	require.NoError(t, err)
	assert.InDelta(t, 0.0, lower, 0)
	assert.InDelta(t, 127.0, upper, 0)

	require.NoError(t, s.SetAutoThreshold("Default dark"))
	lower, upper, err = s.GetThreshold()
	require.NoError(t, err)
	assert.InDelta(t, 128.0, lower, 0)
	assert.InDelta(t, 255.0, upper, 0)

	require.NoError(t, s.SetThreshold(10, 20))
	require.NoError(t, s.ResetThreshold())
	lower, _, err = s.GetThreshold()
	require.NoError(t, err)
	assert.InDelta(t, host.NoThreshold, lower, 0)
}

func TestChangeValues(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("range in selection", func(t *testing.T) {
		t.Parallel()
		s := newSession(t)
		newRamp(t, s, "8-bit ramp")
		require.NoError(t, s.MakeRectangle(0, 0, 10, 10))
		require.NoError(t, s.ChangeValues(ctx, 0, 5, 5))

		v, err := s.GetPixel(0, 0)
		require.NoError(t, err)
		assert.InDelta(t, 5.0, v, 0)
		v, err = s.GetPixel(0, 20)
		require.NoError(t, err)
		assert.InDelta(t, 0.0, v, 0)
	})

	t.Run("nan", func(t *testing.T) {
		t.Parallel()
		s := newSession(t)
		_, err := s.NewImage("f", "32-bit black", 4, 4)
		require.NoError(t, err)
		require.NoError(t, s.SetPixel(1, 1, math.NaN()))
		require.NoError(t, s.ChangeValues(ctx, math.NaN(), math.NaN(), 7))
		v, err := s.GetPixel(1, 1)
		require.NoError(t, err)
		assert.InDelta(t, 7.0, v, 0)
		v, err = s.GetPixel(0, 0)
		require.NoError(t, err)
		assert.InDelta(t, 0.0, v, 0)
	})
}

func TestClosePatterns(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	open := func(t *testing.T, titles ...string) *Session {
		t.Helper()
		s := newSession(t)
		for _, title := range titles {
			_, err := s.NewImage(title, "8-bit black", 8, 8)
			require.NoError(t, err)
		}
		return s
	}
	titles := func(s *Session) []string {
		var out []string
		for _, img := range s.Host().Images().List() {
			out = append(out, img.Title())
		}
		return out
	}

	tests := []struct {
		name    string
		pattern string
		want    []string
	}{
		{"active", "", []string{"blobs.tif", "Histo 1"}},
		{"all", "*", nil},
		{"others", `\Others`, []string{"mask"}},
		{"wildcard", "Histo*", []string{"blobs.tif", "mask"}},
		{"single char", "mas?", []string{"blobs.tif", "Histo 1"}},
		{"exact", "blobs.tif", []string{"Histo 1", "mask"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := open(t, "blobs.tif", "Histo 1", "mask")
			require.NoError(t, s.Close(ctx, tt.pattern))
			assert.Equal(t, tt.want, titles(s))
		})
	}

	t.Run("log and tables", func(t *testing.T) {
		t.Parallel()
		s := open(t, "a")
		require.NoError(t, s.Print("hello"))
		require.NoError(t, s.Close(ctx, "Log"))
		assert.Empty(t, s.GetLog())

		s.Host().Tables().Results()
		require.NoError(t, s.Close(ctx, "Results"))
		assert.Empty(t, s.Host().Tables().Titles())
		assert.Equal(t, 1, s.NImages())
	})

	t.Run("no image", func(t *testing.T) {
		t.Parallel()
		s := open(t)
		require.ErrorIs(t, s.Close(ctx, ""), host.ErrNoImage)
	})
}

func TestRoiManager(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newSession(t)
	newRamp(t, s, "8-bit ramp")

	_, err := s.RoiManager(ctx, "add", "")
	require.ErrorIs(t, err, host.ErrNoSelection)

	require.NoError(t, s.MakeRectangle(0, 0, 10, 10))
	_, err = s.RoiManager(ctx, "add", "")
	require.NoError(t, err)
	require.NoError(t, s.MakeRectangle(5, 5, 10, 10))
	_, err = s.RoiManager(ctx, "Add", "second")
	require.NoError(t, err)

	count, err := s.RoiManager(ctx, "count", "")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	index, err := s.RoiManager(ctx, "index", "")
	require.NoError(t, err)
	assert.Equal(t, -1, index)

	_, err = s.RoiManager(ctx, "select", 0)
	require.NoError(t, err)
	index, err = s.RoiManager(ctx, "index", "")
	require.NoError(t, err)
	assert.Equal(t, 0, index)
	x, y, w, h, err := s.GetSelectionBounds()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 10, 10}, []int{x, y, w, h})

	_, err = s.RoiManager(ctx, "deselect", "")
	require.NoError(t, err)
	_, err = s.RoiManager(ctx, "and", "")
	require.NoError(t, err)
	x, y, w, h, err = s.GetSelectionBounds()
	require.NoError(t, err)
	assert.Equal(t, []int{5, 5, 5, 5}, []int{x, y, w, h})

	_, err = s.RoiManager(ctx, "combine", "")
	require.NoError(t, err)
	kind, err := s.SelectionType()
	require.NoError(t, err)
	assert.Equal(t, int(host.RoiComposite), kind)

	_, err = s.RoiManager(ctx, "split", "")
	require.NoError(t, err)
	count, err = s.RoiManager(ctx, "count", "")
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	_, err = s.RoiManager(ctx, "select", []any{2.0, 3.0})
	require.NoError(t, err)
	_, err = s.RoiManager(ctx, "delete", "")
	require.NoError(t, err)
	count, err = s.RoiManager(ctx, "count", "")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = s.RoiManager(ctx, "select", 1)
	require.NoError(t, err)
	_, err = s.RoiManager(ctx, "rename", "renamed")
	require.NoError(t, err)
	_, name, err := s.Host().RoiManager().Get(1)
	require.NoError(t, err)
	assert.Equal(t, "renamed", name)

	_, err = s.RoiManager(ctx, "measure", "")
	require.NoError(t, err)
	assert.Equal(t, 1, s.Host().Tables().Results().Size())

	_, err = s.RoiManager(ctx, "select", 9)
	require.ErrorIs(t, err, host.ErrIndexOutOfRange)
	_, err = s.RoiManager(ctx, "select", 0.5)
	require.ErrorIs(t, err, ErrInvalidArgument)
	_, err = s.RoiManager(ctx, "show all", "")
	require.NoError(t, err)
	_, err = s.RoiManager(ctx, "multi plot", "")
	require.ErrorIs(t, err, ErrUnknownRoiCommand)

	_, err = s.RoiManager(ctx, "reset", "")
	require.NoError(t, err)
	_, err = s.RoiManager(ctx, "and", "")
	require.ErrorIs(t, err, ErrEmptyRoiManager)
}

func TestImageAccessors(t *testing.T) {
	t.Parallel()
	s := newSession(t)
	a, err := s.NewImage("a", "16-bit", 20, 10)
	require.NoError(t, err)
	_, err = s.NewImage("b", "RGB", 5, 5)
	require.NoError(t, err)

	depth, err := s.BitDepth()
	require.NoError(t, err)
	assert.Equal(t, 24, depth)

	require.NoError(t, s.SelectImage("a"))
	id, err := s.GetImageID()
	require.NoError(t, err)
	assert.Equal(t, a.ID(), id)
	h, err := s.GetHeight()
	require.NoError(t, err)
	assert.Equal(t, 10, h)

	require.NoError(t, s.SelectImage(2))
	title, err := s.GetTitle()
	require.NoError(t, err)
	assert.Equal(t, "b", title)

	require.NoError(t, s.SelectImage(float64(a.ID())))
	title, err = s.GetTitle()
	require.NoError(t, err)
	assert.Equal(t, "a", title)

	require.ErrorIs(t, s.SelectImage("missing"), host.ErrNoSuchImage)
	require.ErrorIs(t, s.SelectImage(3), host.ErrNoSuchImage)
	require.ErrorIs(t, s.SelectImage(true), ErrInvalidArgument)

	v, err := s.Calibrate(12)
	require.NoError(t, err)
	assert.InDelta(t, 12.0, v, 0)

	x, y, w, hh, err := s.GetSelectionBounds()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 20, 10}, []int{x, y, w, hh})
	kind, err := s.SelectionType()
	require.NoError(t, err)
	assert.Equal(t, -1, kind)

	_, err = s.NewImage("stack", "8-bit", 4, 4, 3)
	require.ErrorIs(t, err, ErrNotSupported)
	_, err = s.NewImage("bad", "12-bit", 4, 4)
	require.ErrorIs(t, err, host.ErrInvalidImageType)
}

func TestPrint(t *testing.T) {
	t.Parallel()
	s := newSession(t)

	require.NoError(t, s.Print("area:", 12, 2.5, []any{1.0, "x"}, true))
	assert.Equal(t, "area: 12 2.5000 1, x 1\n", s.GetLog())

	path := filepath.Join(t.TempDir(), "out.txt")
	f, err := s.OpenFile("", path)
	require.NoError(t, err)
	require.NoError(t, s.Print(f, "to file", 3))
	require.NoError(t, s.CloseFile(f))
	_, err = s.OutputFile()
	require.ErrorIs(t, err, ErrNoOutputFile)

	got, err := s.Files().OpenAsString(path)
	require.NoError(t, err)
	assert.Equal(t, "to file 3\n", got)
	assert.Equal(t, "area: 12 2.5000 1, x 1\n", s.GetLog())
}

func TestDialogSlot(t *testing.T) {
	t.Parallel()
	s := newSession(t)
	_, err := s.Dialog()
	require.ErrorIs(t, err, ErrNoDialog)

	d, err := s.CreateDialog("Settings")
	require.NoError(t, err)
	d.AddNumber("Radius", 42, -1, 0, "")
	require.NoError(t, d.Show(context.Background()))

	cur, err := s.Dialog()
	require.NoError(t, err)
	require.Same(t, d, cur)
	v, err := cur.GetNumber()
	require.NoError(t, err)
	assert.InDelta(t, 42.0, v, 0)

	nb, err := s.CreateNonBlockingDialog("Other")
	require.NoError(t, err)
	assert.True(t, nb.NonBlocking())
	cur, err = s.Dialog()
	require.NoError(t, err)
	assert.Same(t, nb, cur)
}

func TestDialogPresenter(t *testing.T) {
	t.Parallel()
	answers := dialog.NewScripted(map[string]map[string]any{
		"Settings": {"Radius": 7},
	})
	s := newSession(t, WithPresenter(answers))

	d, err := s.CreateDialog("Settings")
	require.NoError(t, err)
	d.AddNumber("Radius:", 42, 0, 0, "")
	require.NoError(t, d.Show(context.Background()))
	v, err := d.GetNumber()
	require.NoError(t, err)
	assert.InDelta(t, 7.0, v, 0)
}

func TestFitSlot(t *testing.T) {
	t.Parallel()
	s := newSession(t)

	_, err := s.Fit()
	require.ErrorIs(t, err, fit.ErrNoFit)

	_, err = s.DoFit(context.Background(), "Straight Line", []float64{0, 1, 2}, []float64{1, 3, 5}, nil)
	require.NoError(t, err)
	r, err := s.Fit()
	require.NoError(t, err)
	b, err := r.P(1)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, b, 1e-9)

	_, err = s.DoFit(context.Background(), "Nope", nil, nil, nil)
	require.Error(t, err)
	_, err = s.Fit()
	require.ErrorIs(t, err, fit.ErrNoFit, "a failed fit replaces the previous one")
}

func TestExtensionSlot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	reg, err := ext.NewRegistry(
		ext.WithLogHandler(slog.NewTextHandler(io.Discard, nil)),
		ext.WithFactory("text.upper", func(_ context.Context, env ext.Env) (ext.Plugin, error) {
			return ext.Funcs{
				"upper": func(_ context.Context, args []any) (any, error) {
					s, _ := args[0].(string)
					env.Log("upper " + s)
					return strings.ToUpper(s), nil
				},
			}, nil
		}),
	)
	require.NoError(t, err)
	s := newSession(t, WithRegistry(reg))

	_, err = s.CallExtension(ctx, "upper", "a")
	require.ErrorIs(t, err, ErrNoExtension)

	_, err = s.Install(ctx, "text.upper")
	require.NoError(t, err)
	got, err := s.CallExtension(ctx, "upper", "blobs")
	require.NoError(t, err)
	assert.Equal(t, "BLOBS", got)
	assert.Equal(t, "upper blobs\n", s.GetLog())

	_, err = s.CallExtension(ctx, "lower", "A")
	require.ErrorIs(t, err, ext.ErrUnknownFunction)
	_, err = s.Install(ctx, "missing")
	require.ErrorIs(t, err, ext.ErrUnknownExtension)
}

func TestCall(t *testing.T) {
	t.Parallel()
	s := newSession(t, WithFunctions(map[string]CallFunc{
		"ij.IJ.freeMemory": func(context.Context, ...any) (any, error) { return "10MB", nil },
	}))

	got, err := s.Call(context.Background(), "ij.IJ.freeMemory")
	require.NoError(t, err)
	assert.Equal(t, "10MB", got)

	_, err = s.Call(context.Background(), "ij.IJ.missing")
	require.ErrorIs(t, err, ErrUnknownFunction)
}

func TestDrawString(t *testing.T) {
	t.Parallel()
	s := newSession(t)
	_, err := s.NewImage("canvas", "8-bit black", 60, 30)
	require.NoError(t, err)

	require.NoError(t, s.SetFont("Monospaced", 12, "bold antialiased"))
	require.NoError(t, s.SetColor("white"))
	require.NoError(t, s.SetJustification("left"))
	require.NoError(t, s.DrawString(context.Background(), "Hi", 5, 20))

	assert.True(t, s.Settings().Font.Bold)
	lit := 0
	img, err := s.Host().Images().Active()
	require.NoError(t, err)
	for _, v := range img.(*memhost.Image).Pixels() {
		if v == 255 {
			lit++
		}
	}
	assert.Positive(t, lit)

	require.Error(t, s.SetJustification("middle"))
	require.Error(t, s.SetFont("Serif", 0, ""))
	require.Error(t, s.SetColorRGB(256, 0, 0))
}

func TestShutdown(t *testing.T) {
	t.Parallel()
	s := newSession(t)
	path := filepath.Join(t.TempDir(), "log.txt")
	f, err := s.OpenFile(path, "")
	require.NoError(t, err)

	require.NoError(t, s.Shutdown(context.Background()))
	assert.True(t, f.Closed())
	require.NoError(t, s.Shutdown(context.Background()))
	require.ErrorIs(t, s.Print("late"), ErrSessionShutdown)
	_, err = s.CreateDialog("late")
	require.ErrorIs(t, err, ErrSessionShutdown)
}

func TestStringHelpers(t *testing.T) {
	t.Parallel()

	t.Run("d2s", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			n        float64
			decimals int
			want     string
		}{
			{3.14159, 2, "3.14"},
			{2, 0, "2"},
			{1234.5678, -2, "1.23E3"},
			{0.00012, -1, "1.2E-4"},
			{math.NaN(), 2, "NaN"},
			{math.Inf(-1), 2, "-Infinity"},
		}
		for _, tt := range tests {
			assert.Equal(t, tt.want, D2S(tt.n, tt.decimals))
		}
	})

	t.Run("char codes", func(t *testing.T) {
		t.Parallel()
		c, err := CharCodeAt("abc", 1)
		require.NoError(t, err)
		assert.Equal(t, 98, c)

		_, err = CharCodeAt("abc", 5)
		require.ErrorIs(t, err, ErrIndexOutOfRange)
		assert.Contains(t, err.Error(), "Index (5) is outside of the 0-2 range")

		s, err := FromCharCode(72, 105, 0x00e9)
		require.NoError(t, err)
		assert.Equal(t, "Hié", s)
		_, err = FromCharCode(-1)
		require.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("length and arrays", func(t *testing.T) {
		t.Parallel()
		n, err := LengthOf("héllo")
		require.NoError(t, err)
		assert.Equal(t, 5, n)
		n, err = LengthOf([]any{1, 2})
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		_, err = LengthOf(3)
		require.ErrorIs(t, err, ErrInvalidArgument)

		assert.Equal(t, []any{0.0, 0.0, 0.0}, NewArray(3))
		assert.Equal(t, []any{"a", "b"}, NewArray("a", "b"))
		assert.Equal(t, []any{2.5}, NewArray(2.5))
	})
}
