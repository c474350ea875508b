package fit

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type model func(p []float64, x float64) float64

// Equation is one of the built-in curve fitting functions.
type Equation struct {
	Name    string
	Formula string
	NParams int

	f model
	// basis is set for models linear in their parameters; they are solved exactly.
	basis func(x float64) []float64
	guess func(x, y []float64) []float64
}

func polyBasis(degree int) func(x float64) []float64 {
	return func(x float64) []float64 {
		b := make([]float64, degree+1)
		v := 1.0
		for i := range b {
			b[i] = v
			v *= x
		}
		return b
	}
}

func polyModel(p []float64, x float64) float64 {
	sum := 0.0
	for i := len(p) - 1; i >= 0; i-- {
		sum = sum*x + p[i]
	}
	return sum
}

// equations are listed in the host's curve fitter order; NumEquations and
// GetEquation index into it.
var equations = []Equation{
	{Name: "Straight Line", Formula: "y = a+bx", NParams: 2, f: polyModel, basis: polyBasis(1)},
	{Name: "2nd Degree Polynomial", Formula: "y = a+bx+cx^2", NParams: 3, f: polyModel, basis: polyBasis(2)},
	{Name: "3rd Degree Polynomial", Formula: "y = a+bx+cx^2+dx^3", NParams: 4, f: polyModel, basis: polyBasis(3)},
	{Name: "4th Degree Polynomial", Formula: "y = a+bx+cx^2+dx^3+ex^4", NParams: 5, f: polyModel, basis: polyBasis(4)},
	{
		Name: "Exponential", Formula: "y = a*exp(bx)", NParams: 2,
		f:     func(p []float64, x float64) float64 { return p[0] * math.Exp(p[1]*x) },
		guess: guessExponential,
	},
	{
		Name: "Power", Formula: "y = a*x^b", NParams: 2,
		f:     func(p []float64, x float64) float64 { return p[0] * math.Pow(x, p[1]) },
		guess: guessPower,
	},
	{
		Name: "Log", Formula: "y = a*ln(bx)", NParams: 2,
		f:     func(p []float64, x float64) float64 { return p[0] * math.Log(p[1]*x) },
		guess: guessLog,
	},
	{
		Name: "Rodbard", Formula: "y = d+(a-d)/(1+(x/c)^b)", NParams: 4,
		f: func(p []float64, x float64) float64 {
			return p[3] + (p[0]-p[3])/(1+math.Pow(x/p[2], p[1]))
		},
		guess: guessRodbard,
	},
	{
		Name: "Gamma Variate", Formula: "y = b*(x-a)^c*exp(-(x-a)/d)", NParams: 4,
		f: func(p []float64, x float64) float64 {
			if x <= p[0] {
				return 0
			}
			return p[1] * math.Pow(x-p[0], p[2]) * math.Exp(-(x-p[0])/p[3])
		},
		guess: guessGammaVariate,
	},
	{
		Name: "y = a+b*ln(x-c)", Formula: "y = a+b*ln(x-c)", NParams: 3,
		f:     func(p []float64, x float64) float64 { return p[0] + p[1]*math.Log(x-p[2]) },
		guess: guessLogOffset,
	},
	{
		Name: "Exponential with Offset", Formula: "y = a*exp(-bx) + c", NParams: 3,
		f:     func(p []float64, x float64) float64 { return p[0]*math.Exp(-p[1]*x) + p[2] },
		guess: guessExpOffset,
	},
	{
		Name: "Gaussian", Formula: "y = a + (b-a)*exp(-(x-c)*(x-c)/(2*d*d))", NParams: 4,
		f: func(p []float64, x float64) float64 {
			return p[0] + (p[1]-p[0])*math.Exp(-(x-p[2])*(x-p[2])/(2*p[3]*p[3]))
		},
		guess: guessGaussian,
	},
	{
		Name: "Exponential Recovery", Formula: "y = a*(1-exp(-b*x)) + c", NParams: 3,
		f:     func(p []float64, x float64) float64 { return p[0]*(1-math.Exp(-p[1]*x)) + p[2] },
		guess: guessRecovery,
	},
	{
		Name: "Error Function", Formula: "y = a+b*erf((x-c)/d)", NParams: 4,
		f:     func(p []float64, x float64) float64 { return p[0] + p[1]*math.Erf((x-p[2])/p[3]) },
		guess: guessErf,
	},
	{
		Name: "Gaussian (no offset)", Formula: "y = a*exp(-(x-b)*(x-b)/(2*c*c))", NParams: 3,
		f: func(p []float64, x float64) float64 {
			return p[0] * math.Exp(-(x-p[1])*(x-p[1])/(2*p[2]*p[2]))
		},
		guess: func(x, y []float64) []float64 {
			g := guessGaussian(x, y)
			return []float64{g[1], g[2], g[3]}
		},
	},
}

var aliases = map[string]string{
	"poly1":       "Straight Line",
	"poly2":       "2nd Degree Polynomial",
	"poly3":       "3rd Degree Polynomial",
	"poly4":       "4th Degree Polynomial",
	"exp":         "Exponential",
	"exponential": "Exponential",
	"power":       "Power",
	"log":         "Log",
	"rodbard":     "Rodbard",
	"gamma":       "Gamma Variate",
	"gaussian":    "Gaussian",
	"erf":         "Error Function",
}

// NumEquations returns the number of built-in equations.
func NumEquations() int {
	return len(equations)
}

// GetEquation returns the name and formula of built-in equation i.
func GetEquation(i int) (name, formula string, err error) {
	if i < 0 || i >= len(equations) {
		return "", "", ErrUnknownEquation
	}
	return equations[i].Name, equations[i].Formula, nil
}

func lookupEquation(name string) (Equation, bool) {
	key := strings.TrimSpace(name)
	if alias, ok := aliases[strings.ToLower(key)]; ok {
		key = alias
	}
	for _, eq := range equations {
		if strings.EqualFold(eq.Name, key) || eq.Formula == key {
			return eq, true
		}
	}
	return Equation{}, false
}

// linearRegression fits y = a + b*x.
func linearRegression(x, y []float64) (a, b float64) {
	if len(x) < 2 {
		return stat.Mean(y, nil), 0
	}
	return stat.LinearRegression(x, y, nil, false)
}

func allPositive(v []float64) bool {
	for _, f := range v {
		if f <= 0 {
			return false
		}
	}
	return true
}

func logs(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, f := range v {
		out[i] = math.Log(f)
	}
	return out
}

func guessExponential(x, y []float64) []float64 {
	if allPositive(y) {
		a, b := linearRegression(x, logs(y))
		return []float64{math.Exp(a), b}
	}
	return []float64{stat.Mean(y, nil), 0}
}

func guessPower(x, y []float64) []float64 {
	if allPositive(x) && allPositive(y) {
		a, b := linearRegression(logs(x), logs(y))
		return []float64{math.Exp(a), b}
	}
	return []float64{stat.Mean(y, nil), 1}
}

func guessLog(x, y []float64) []float64 {
	if allPositive(x) {
		a, b := linearRegression(logs(x), y)
		if b != 0 {
			return []float64{b, math.Exp(a / b)}
		}
	}
	return []float64{stat.Mean(y, nil), 1}
}

func guessRodbard(x, y []float64) []float64 {
	return []float64{y[0], 1, stat.Mean(x, nil), y[len(y)-1]}
}

func guessGammaVariate(x, y []float64) []float64 {
	xmin := floats.Min(x)
	xpeak := x[floats.MaxIdx(y)]
	d := max((xpeak-xmin)/2, 1e-3)
	return []float64{xmin - 0.1*math.Abs(xpeak-xmin) - 1e-3, floats.Max(y), 2, d}
}

func guessLogOffset(x, y []float64) []float64 {
	xmin, xmax := floats.Min(x), floats.Max(x)
	span := max(xmax-xmin, 1)
	c := xmin - 0.1*span
	a, b := linearRegression(logsShifted(x, c), y)
	return []float64{a, b, c}
}

func logsShifted(x []float64, c float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = math.Log(v - c)
	}
	return out
}

func guessExpOffset(x, y []float64) []float64 {
	span := max(floats.Max(x)-floats.Min(x), 1e-10)
	last := y[len(y)-1]
	return []float64{y[0] - last, 3 / span, last}
}

func guessGaussian(x, y []float64) []float64 {
	ymin, ymax := floats.Min(y), floats.Max(y)
	xmin, xmax := floats.Min(x), floats.Max(x)
	d := 0.39894 * (xmax - xmin) * (stat.Mean(y, nil) - ymin) / max(ymax-ymin, 1e-10)
	return []float64{ymin, ymax, x[floats.MaxIdx(y)], max(d, 1e-3)}
}

func guessRecovery(x, y []float64) []float64 {
	ymin, ymax := floats.Min(y), floats.Max(y)
	span := max(floats.Max(x)-floats.Min(x), 1e-10)
	return []float64{ymax - ymin, 3 / span, ymin}
}

func guessErf(x, y []float64) []float64 {
	ymin, ymax := floats.Min(y), floats.Max(y)
	span := max(floats.Max(x)-floats.Min(x), 1e-10)
	sign := 1.0
	if y[len(y)-1] < y[0] {
		sign = -1
	}
	return []float64{(ymin + ymax) / 2, sign * (ymax - ymin) / 2, stat.Mean(x, nil), span / 4}
}
