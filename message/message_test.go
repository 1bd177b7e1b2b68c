package message_test

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sparky983/warp-config-sub000/deserialize"
	"github.com/Sparky983/warp-config-sub000/diagnostic"
	"github.com/Sparky983/warp-config-sub000/message"
	"github.com/Sparky983/warp-config-sub000/node"
	"github.com/Sparky983/warp-config-sub000/schema"
)

func TestRender(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		text   string
		params []message.Param
		args   []any
		want   string
	}{
		{
			name: "plain text",
			text: "hello",
			want: "hello",
		},
		{
			name:   "text placeholder",
			text:   "hello {name}!",
			params: []message.Param{message.Text("name")},
			args:   []any{"bob"},
			want:   "hello bob!",
		},
		{
			name:   "escapes",
			text:   "{{literal}} {name}",
			params: []message.Param{message.Text("name")},
			args:   []any{1},
			want:   "{literal} 1",
		},
		{
			name:   "number verb",
			text:   "cost: {price}",
			params: []message.Param{message.Number("price", "%.2f")},
			args:   []any{1.5},
			want:   "cost: 1.50",
		},
		{
			name:   "date layout",
			text:   "on {day}",
			params: []message.Param{message.Date("day", time.DateOnly)},
			args:   []any{day},
			want:   "on 2024-03-05",
		},
		{
			name:   "bool choice",
			text:   "feature is {on|enabled|disabled}",
			params: []message.Param{message.Choice("on")},
			args:   []any{false},
			want:   "feature is disabled",
		},
		{
			name:   "numeric choice",
			text:   "{n|0#no files|1#one file|2#many files}",
			params: []message.Param{message.Choice("n")},
			args:   []any{7},
			want:   "many files",
		},
		{
			name:   "numeric choice below every limit",
			text:   "{n|0#none|1#some}",
			params: []message.Param{message.Choice("n")},
			args:   []any{int8(-3)},
			want:   "none",
		},
		{
			name:   "repeated placeholder",
			text:   "{a}{b}{a}",
			params: []message.Param{message.Text("a"), message.Text("b")},
			args:   []any{"x", "y"},
			want:   "xyx",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tmpl, errs := message.Parse(tt.text, tt.params...)
			require.Empty(t, errs)
			assert.Equal(t, tt.want, tmpl.Render(tt.args...))
		})
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	_, errs := message.Parse("{missing} } {on} {n|x} {n|a#b} {t|a|b} {n|1|2|3}",
		message.Choice("on"), message.Choice("n"), message.Text("t"))

	assert.Equal(t, []diagnostic.Error{
		diagnostic.New("Unknown placeholder {missing}"),
		diagnostic.New("Unmatched } at offset 10"),
		diagnostic.New("Placeholder {on} needs choices"),
		diagnostic.New("Malformed choice {n|x}"),
		diagnostic.New("Malformed choice {n|a#b}"),
		diagnostic.New("Placeholder {t} does not take choices"),
		diagnostic.New("Malformed choice {n|1|2|3}"),
	}, errs)

	_, errs = message.Parse("open {name", message.Text("name"))
	assert.Equal(t, []diagnostic.Error{diagnostic.New("Unclosed placeholder at offset 5")}, errs)
}

func TestParamCheck(t *testing.T) {
	t.Parallel()

	type Welcome interface {
		Greeting(name string, visits int, at time.Time) string
	}

	_, err := schema.Define(func(*schema.Instance) Welcome { return nil },
		message.Property("Greeting", "greeting",
			message.Text("name"), message.Choice("visits"), message.Date("at", "")))
	require.NoError(t, err)

	_, err = schema.Define(func(*schema.Instance) Welcome { return nil },
		message.Property("Greeting", "greeting",
			message.Number("name", ""), message.Choice("visits"), message.Text("at")))
	require.ErrorIs(t, err, schema.ErrInvalidContract)
	assert.Contains(t, err.Error(), "number parameter needs a numeric argument, got string")

	_, err = schema.Define(func(*schema.Instance) Welcome { return nil },
		message.Property("Greeting", "greeting",
			message.Text("name"), message.Choice("visits")))
	require.ErrorIs(t, err, schema.ErrInvalidContract)
	assert.Contains(t, err.Error(), "takes 3 arguments, property declares 2 parameters")
}

func TestParamCheckNamedTypes(t *testing.T) {
	t.Parallel()

	type visits uint8

	require.NoError(t, message.Number("n", "").Check(reflect.TypeFor[time.Duration]()))
	require.NoError(t, message.Number("n", "").Check(reflect.TypeFor[float32]()))
	require.NoError(t, message.Choice("c").Check(reflect.TypeFor[visits]()))
	require.NoError(t, message.Choice("c").Check(reflect.TypeFor[bool]()))
	require.Error(t, message.Choice("c").Check(reflect.TypeFor[float64]()))
	require.Error(t, message.Number("n", "").Check(reflect.TypeFor[[]int]()))
}

type Messages interface {
	Welcome(name string, count int) string
}

type messages struct{ *schema.Instance }

func (m messages) Welcome(name string, count int) string {
	return schema.Get[string](m.Instance, "Welcome", name, count)
}

var messagesContract = schema.MustDefine(func(i *schema.Instance) Messages { return messages{i} },
	message.Property("Welcome", "messages.welcome", message.Text("name"), message.Choice("count")),
)

func bind(t *testing.T, doc string) (Messages, error) {
	t.Helper()

	n, err := node.ParseYAML([]byte(doc))
	require.NoError(t, err)

	inst, err := schema.NewBinder(messagesContract, deserialize.Defaults()).Bind([]node.Node{n})
	if err != nil {
		return nil, err
	}

	return messagesContract.New(inst), nil
}

func TestTemplatedProperty(t *testing.T) {
	t.Parallel()

	m, err := bind(t, `messages: {welcome: "Hi {name}, {count|0#no mail|1#one letter|2#letters}"}`)
	require.NoError(t, err)

	assert.Equal(t, "Hi ann, no mail", m.Welcome("ann", 0))
	assert.Equal(t, "Hi bob, letters", m.Welcome("bob", 12))

	_, err = bind(t, `messages: {welcome: "Hi {nme}"}`)
	errs, ok := diagnostic.As(err)
	require.True(t, ok)
	assert.Equal(t, []string{"messages.welcome: Unknown placeholder {nme}"}, errs.Strings())

	_, err = bind(t, `messages: {welcome: 3}`)
	errs, ok = diagnostic.As(err)
	require.True(t, ok)
	assert.Equal(t, []string{"messages.welcome: Must be a string"}, errs.Strings())

	_, err = bind(t, `other: 1`)
	errs, ok = diagnostic.As(err)
	require.True(t, ok)
	assert.Contains(t, errs.Strings(), "messages.welcome: Must be set to a value")
}

func ExampleParse() {
	tmpl, _ := message.Parse("{user} has {n|0#no|1#one|2#several} new {n|0#messages|1#message|2#messages}",
		message.Text("user"), message.Choice("n"))

	fmt.Println(tmpl.Render("ann", 1))
	fmt.Println(tmpl.Render("bob", 5))
	// Output:
	// ann has one new message
	// bob has several new messages
}
