package analyzer

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/invl/internal/ast"
	"github.com/funvibe/invl/internal/diagnostics"
	"github.com/funvibe/invl/internal/lexer"
	"github.com/funvibe/invl/internal/parser"
	"github.com/funvibe/invl/internal/pipeline"
)

// analyzeSource lexes, parses and checks input, returning the first error.
func analyzeSource(t *testing.T, input string) *diagnostics.DiagnosticError {
	t.Helper()
	ctx := pipeline.NewPipelineContext(input)
	ctx.FilePath = "test.invl"
	ctx = pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&AnalyzerProcessor{},
	).Run(ctx)
	if len(ctx.Errors) == 0 {
		return nil
	}
	require.Len(t, ctx.Errors, 1)
	return ctx.Errors[0]
}

// expectAnalyzerError asserts that checking fails with code and that the
// message mentions every fragment.
func expectAnalyzerError(t *testing.T, input string, code diagnostics.ErrorCode, fragments ...string) *diagnostics.DiagnosticError {
	t.Helper()
	err := analyzeSource(t, input)
	if err == nil {
		t.Fatalf("expected error %s, but got none\ninput: %s", code, input)
	}
	if err.Code != code {
		t.Fatalf("expected error %s, got %s\ninput: %s", code, err.Error(), input)
	}
	for _, f := range fragments {
		if !strings.Contains(err.Message, f) {
			t.Errorf("expected error message to contain %q, got: %s", f, err.Message)
		}
	}
	return err
}

func expectNoAnalyzerErrors(t *testing.T, input string) {
	t.Helper()
	if err := analyzeSource(t, input); err != nil {
		t.Fatalf("expected no errors, got: %s\ninput: %s", err.Error(), input)
	}
}

// ---------------------------------------------------------------------------
// N001-N004: procedure table and call classes

func TestDuplicateProcedure(t *testing.T) {
	expectAnalyzerError(t, `
main() skip
inj f(int x) x += 1
invl f(int x) with x ^= 1
`, diagnostics.ErrN001, "f")

	expectAnalyzerError(t, `
main() skip
invl m[1]
invl m[0, 1; 1, 0]
`, diagnostics.ErrN001, "m")
}

func TestUndefinedProcedure(t *testing.T) {
	expectAnalyzerError(t, "main() int x call g(x)", diagnostics.ErrN002, "g")
	expectAnalyzerError(t, "main() int x skip with uncall g(x)", diagnostics.ErrN002, "g")
	expectAnalyzerError(t, `
main() int x skip
inj f(int a)
    if a = 0 then call missing(a) fi a = 0
`, diagnostics.ErrN002, "missing")
}

func TestInjectiveCallInsideInvolution(t *testing.T) {
	const procs = `
inj f(int a) a += 1
invl g(int a) with a ^= 1
invl m[0, 1; 1, 0]
`
	expectAnalyzerError(t, "main() int x skip with call f(x)"+procs, diagnostics.ErrN003, "f")
	expectAnalyzerError(t, "main() int x skip with uncall f(x)"+procs, diagnostics.ErrN003, "f")
	expectAnalyzerError(t, "main() int x skip with if x = 0 then call f(x) end"+procs, diagnostics.ErrN003)
	expectAnalyzerError(t, "main() int x skip"+procs+"invl h(int a) with call f(a)", diagnostics.ErrN003)

	expectNoAnalyzerErrors(t, "main() int x skip with call g(x)"+procs)
	expectNoAnalyzerErrors(t, "main() int x int y skip with call m(x, y)"+procs)
	// outside a with body injective calls are fine
	expectNoAnalyzerErrors(t, "main() int x call f(x) uncall f(x)"+procs)
	expectNoAnalyzerErrors(t, "main() int x skip"+procs+"invl h(int a) call f(a) with skip")
}

func TestArgumentCount(t *testing.T) {
	expectAnalyzerError(t, `
main() int x int y call f(x, y)
inj f(int a) a += 1
`, diagnostics.ErrN004, "f expects 1 argument(s), got 2")

	expectAnalyzerError(t, `
main() int x skip with call m(x)
invl m[0, 1; 1, 0]
`, diagnostics.ErrN004, "m expects 2 argument(s), got 1")
}

// ---------------------------------------------------------------------------
// R001-R002: self reference and aliasing

func TestSelfReferencingMutation(t *testing.T) {
	expectAnalyzerError(t, "main() int x x += x", diagnostics.ErrR001, "x")
	expectAnalyzerError(t, "main() int x int y x -= y * (x + 1)", diagnostics.ErrR001)
	expectAnalyzerError(t, "main() int x x <=> x", diagnostics.ErrR001)
	expectAnalyzerError(t, "main() array[2] a a[0] += a[1]", diagnostics.ErrR001, "a")
	expectAnalyzerError(t, "main() list l int x x += size(l) l += empty(l)", diagnostics.ErrR001, "l")
	expectAnalyzerError(t, `
main() skip
inj f(int a, int b) local int t = 0 t += t delocal int t = 0
`, diagnostics.ErrR001, "t")

	expectNoAnalyzerErrors(t, "main() int x int y x += y")
	expectNoAnalyzerErrors(t, "main() array[2] a int i a[i] += i")
	expectNoAnalyzerErrors(t, "main() array[2] a a[0] <=> a[1]")
}

func TestRepeatedArgument(t *testing.T) {
	const f = "\ninj f(int a, int b) a += b\n"
	expectAnalyzerError(t, "main() int x call f(x, x)"+f, diagnostics.ErrR002, "x", "f")
	expectAnalyzerError(t, "main() int x skip"+f+"invl g(int p, int q) with uncall g(q, q)", diagnostics.ErrR002, "q")
	expectNoAnalyzerErrors(t, "main() int x int y call f(x, y)"+f)
}

// ---------------------------------------------------------------------------
// R003-R004: linear use inside involutions

func TestLinearUse(t *testing.T) {
	expectNoAnalyzerErrors(t, "main() int x int y skip with x += 1 y -= 1")

	err := expectAnalyzerError(t, "main() int x int y skip with x += 1\n x -= 2", diagnostics.ErrR003, "x")
	assert.Equal(t, 2, err.Token.Line)

	expectAnalyzerError(t, "main() int x int y skip with x += y y += 1", diagnostics.ErrR003, "y")
	expectAnalyzerError(t, "main() array[3] a int i skip with a[i] ^= 1 a[0] ^= 1", diagnostics.ErrR003, "a")
	expectAnalyzerError(t, `
main() skip
invl g(int p, int q) with
    call g(p, q)
    p ^= 1
`, diagnostics.ErrR003, "p")
}

func TestLinearUseIgnoresConstAndLiterals(t *testing.T) {
	expectNoAnalyzerErrors(t, "main() const int k = 3 int x int y skip with x += k y += k * k")
	expectNoAnalyzerErrors(t, "main() int x skip with x ^= 5")
}

func TestLinearUseInConditionals(t *testing.T) {
	// each arm may use a variable once
	expectNoAnalyzerErrors(t, `
main() int c int x skip with
    if c then x += 1 else x -= 1 end
`)
	// the guard counts as a use on both arms
	expectAnalyzerError(t, `
main() int c int x skip with
    if c then c += 1 end
`, diagnostics.ErrR003, "c")
	// a use in either arm blocks later uses
	expectAnalyzerError(t, `
main() int c int x int y skip with
    if c then x += 1 else y += 1 end
    x -= 1
`, diagnostics.ErrR003, "x")
	expectAnalyzerError(t, `
main() int c int x int y skip with
    if c then x += 1 else y += 1 end
    y -= 1
`, diagnostics.ErrR003, "y")
}

func TestLinearUseInForLoops(t *testing.T) {
	// pack variables of a tracked container start fresh
	expectNoAnalyzerErrors(t, `
main() array[4] a skip with
    for [x, y] in a do x <=> y end
`)
	expectAnalyzerError(t, `
main() array[4] a skip with
    for x in a do x += 1 x -= 1 end
`, diagnostics.ErrR003, "x")
	// outer variables count as used inside the body
	expectAnalyzerError(t, `
main() array[4] a int k skip with
    for x in a do x += k end
`, diagnostics.ErrR003, "k")
	// the loop leaves the enclosing uses as it found them
	expectNoAnalyzerErrors(t, `
main() array[4] a skip with
    for x in a do x ^= 1 end
    a[0] ^= 1
`)
	expectNoAnalyzerErrors(t, `
main() array[4] a skip with
    for x in a do x ^= 1 end
    for y in a do y ^= 2 end
`)
	expectNoAnalyzerErrors(t, `
main() array[4] a array[4] p skip with
    for x in a[p] do x ^= 1 end
    p[0] ^= 1
`)
	// the container is used by the loop, so the body cannot use it again
	expectAnalyzerError(t, `
main() array[4] a skip with
    for x in a do a[0] ^= 1 end
`, diagnostics.ErrR003, "a")
	expectAnalyzerError(t, `
main() array[4] a array[4] p skip with
    for x in a[p] do x += p[0] end
`, diagnostics.ErrR003, "p")
	// a container used before the loop cannot be iterated
	expectAnalyzerError(t, `
main() array[4] a skip with
    a[0] ^= 1
    for x in a do x ^= 1 end
`, diagnostics.ErrR003, "a")
	// a const container gives untracked pack variables
	expectNoAnalyzerErrors(t, `
main() const array[2] c array[2] a skip with
    for (x, y) in (c, a) do y += x * x end
`)
}

func TestStatementNotAllowedInInvolution(t *testing.T) {
	tests := []struct {
		body string
		kind string
	}{
		{"if x = 0 then x += 1 fi x = 1", "if-fi conditional"},
		{"from x = 0 loop x += 1 until x = 3", "from-loop"},
		{"push_front(x, l)", "push_front"},
		{"pop_back(x, l)", "pop_back"},
		{"local int t = 0 delocal int t = 0", "local block"},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			expectAnalyzerError(t, "main() int x list l skip with "+tt.body, diagnostics.ErrR004, tt.kind)
		})
	}
	// allowed in forward bodies
	expectNoAnalyzerErrors(t, "main() int x list l push_front(x, l) pop_front(x, l) with skip")
}

// ---------------------------------------------------------------------------
// N005, R005: scope and const

func TestUndefinedVariable(t *testing.T) {
	expectAnalyzerError(t, "main() int x y += 1", diagnostics.ErrN005, "y")
	expectAnalyzerError(t, "main() int x x += y", diagnostics.ErrN005, "y")
	expectAnalyzerError(t, "main() int x int y = z x += 1", diagnostics.ErrN005, "z")
	expectAnalyzerError(t, "main() int x print(q)", diagnostics.ErrN005, "q")
	expectAnalyzerError(t, "main() int x for v in a do skip end", diagnostics.ErrN005, "a")
	expectAnalyzerError(t, "main() int x local int t = 0 skip delocal int t = 0 t += 1", diagnostics.ErrN005, "t")
	expectAnalyzerError(t, `
main() skip
inj f(int a) a += b
`, diagnostics.ErrN005, "b")

	expectNoAnalyzerErrors(t, "main() int x int y = x + 1 local int t = y x += t delocal int t = y")
	expectNoAnalyzerErrors(t, "main() array[2] a int s for v in a do s += v end")
}

func TestConstBindings(t *testing.T) {
	expectAnalyzerError(t, "main() const int k = 1 k += 1", diagnostics.ErrR005, "k")
	expectAnalyzerError(t, "main() const array[2] a a[0] ^= 1", diagnostics.ErrR005, "a")
	expectAnalyzerError(t, "main() const array[2] a a[0] <=> a[1]", diagnostics.ErrR005, "a")
	expectAnalyzerError(t, "main() const int k int x x <=> k", diagnostics.ErrR005, "k")
	expectAnalyzerError(t, "main() const list l push_back(1, l)", diagnostics.ErrR005, "l")
	expectAnalyzerError(t, "main() const int k list l pop_back(k, l)", diagnostics.ErrR005, "k")
	expectAnalyzerError(t, "main() const array[2] a int s for v in a do v += s end", diagnostics.ErrR005, "v")
	expectAnalyzerError(t, `
main() const int k call f(k)
inj f(int a) a += 1
`, diagnostics.ErrR005, "k")
	expectAnalyzerError(t, `
main() const int k int x skip with call m(k, x)
invl m[0, 1; 1, 0]
`, diagnostics.ErrR005, "k")

	expectNoAnalyzerErrors(t, `
main() const int k int x call f(k, x)
inj f(const int a, int b) b += a
`)
	expectNoAnalyzerErrors(t, "main() const int k int x x += k * 2")
}

// ---------------------------------------------------------------------------
// I001: bodies that must be flipped

func TestIrreversibleBodies(t *testing.T) {
	expectAnalyzerError(t, `
main() int x skip
inj f(int a)
    if a = 0 then a += 1 end
`, diagnostics.ErrI001, "if-end conditional")

	expectAnalyzerError(t, `
main() int x skip
invl g(array[2] a)
    for v in a do v += 1 end
with skip
`, diagnostics.ErrI001, "for loop")

	expectAnalyzerError(t, "main() int x if x = 0 then x += 1 end with x ^= 1", diagnostics.ErrI001)

	// main without with is never flipped
	expectNoAnalyzerErrors(t, "main() int x if x = 0 then x += 1 end")
	// involution bodies are not flipped
	expectNoAnalyzerErrors(t, "main() array[2] a skip with for v in a do v ^= 1 end")
}

// ---------------------------------------------------------------------------

func TestCheckReturnsDiagnostic(t *testing.T) {
	ctx := pipeline.NewPipelineContext("main() int x x += x")
	ctx.FilePath = "self.invl"
	ctx = pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}).Run(ctx)
	require.Empty(t, ctx.Errors)

	err := Check(ctx.Program())
	require.Error(t, err)

	var diag *diagnostics.DiagnosticError
	require.True(t, errors.As(err, &diag))
	assert.Equal(t, diagnostics.ErrR001, diag.Code)
	assert.Equal(t, "self.invl", diag.File)
	assert.Equal(t, "self.invl:1:14: LinearityError [R001] mutation of x reads x", diag.Error())
}

func TestCheckAcceptsCompleteProgram(t *testing.T) {
	expectNoAnalyzerErrors(t, `
main()
    int n = 5
    list l
    array[3] a = [1, 2, 3]
    from n = 5 loop
        push_front(n, l)
        n += size(l)
        n -= 6
    until empty(l) = 0 && n = 0
    call sum(a, n)
with
    call swap(a, n)
    print(l)

inj sum(array[3] a, int s)
    local int i = 0
        from i = 0 loop
            s += a[i]
            i += 1
        until i = 3
    delocal int i = 3

invl swap(array[3] a, int s)
    s += 1
with
    a[0] <=> a[2]

invl m[0, 1; 1, 0]
`)
}

func TestMutables(t *testing.T) {
	x, y, k := ast.NewVariable("x"), ast.NewVariable("y"), ast.NewVariable("k")
	m := NewMutables([]ast.TypedVariable{
		{Var: x, Type: ast.Type{Kind: ast.KindInt}},
		{Var: y, Type: ast.Type{Kind: ast.KindInt}},
		{Var: k, Type: ast.Type{Kind: ast.KindInt, Const: true}},
	})
	assert.Equal(t, Mutables{x: false, y: false}, m)

	c := m.Clone()
	c[x] = true
	assert.False(t, m[x])

	m.Merge(c)
	assert.Equal(t, Mutables{x: true, y: false}, m)
}
