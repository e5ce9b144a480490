package app

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/viper"
	cliflag "k8s.io/component-base/cli/flag"

	"github.com/autopeer-io/alarmbridge/pkg/log"
)

type testOptions struct {
	Name  string       `mapstructure:"name"`
	Log   *log.Options `mapstructure:"log"`
	valid bool
}

func (o *testOptions) Flags() cliflag.NamedFlagSets {
	fss := cliflag.NamedFlagSets{}
	fs := fss.FlagSet("test")
	fs.StringVar(&o.Name, "name", o.Name, "a name")
	o.Log.AddFlags(fss.FlagSet("log"))
	return fss
}

func (o *testOptions) Complete() error {
	o.valid = o.Name != ""
	return nil
}

func (o *testOptions) Validate() error {
	if !o.valid {
		return errors.New("name is required")
	}
	return nil
}

func (o *testOptions) LogOptions() *log.Options { return o.Log }

func newTestApp(opts *testOptions, run RunFunc) *App {
	return NewApp("testapp", "test", WithOptions(opts), WithDefaultValidArgs(), WithSilence(), WithRunFunc(run))
}

func TestAppRunsWithFlags(t *testing.T) {
	viper.Reset()
	t.Chdir(t.TempDir())

	opts := &testOptions{Log: log.NewOptions()}
	var ran bool
	a := newTestApp(opts, func() error {
		ran = true
		return nil
	})

	a.Command().SetArgs([]string{"--name", "bridge", "--log.level", "debug"})
	if err := a.Command().Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !ran {
		t.Fatal("run func was not called")
	}
	if opts.Name != "bridge" || opts.Log.Level != "debug" {
		t.Errorf("options not populated: name=%q level=%q", opts.Name, opts.Log.Level)
	}
}

func TestAppValidationFailureSkipsRun(t *testing.T) {
	viper.Reset()
	t.Chdir(t.TempDir())

	opts := &testOptions{Log: log.NewOptions()}
	a := newTestApp(opts, func() error {
		t.Fatal("run must not be called")
		return nil
	})

	var out bytes.Buffer
	a.Command().SetErr(&out)
	a.Command().SetArgs([]string{})
	if err := a.Command().Execute(); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestDefaultValidArgsRejectsPositional(t *testing.T) {
	viper.Reset()
	t.Chdir(t.TempDir())

	a := newTestApp(&testOptions{Log: log.NewOptions()}, func() error { return nil })
	a.Command().SetErr(&bytes.Buffer{})
	a.Command().SetArgs([]string{"--name", "x", "extra"})
	if err := a.Command().Execute(); err == nil {
		t.Fatal("expected error for positional argument")
	}
}

func TestEnvPrefix(t *testing.T) {
	if got := envPrefix("alarm-bridge"); got != "ALARM_BRIDGE" {
		t.Errorf("envPrefix = %q", got)
	}
}
