package main

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"todoctl/internal/config"
	"todoctl/internal/mockapi"
)

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"todoctl": run,
	}))
}

type apiKey struct{}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
		Setup: func(env *testscript.Env) error {
			api := mockapi.New(nil)
			srv := httptest.NewServer(api.Handler())
			env.Defer(srv.Close)
			env.Values[apiKey{}] = api

			env.Setenv(config.EnvBaseURL, srv.URL)
			env.Setenv("XDG_CONFIG_HOME", filepath.Join(env.WorkDir, "config"))
			return nil
		},
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			"failnext": cmdFailNext,
			"apicount": cmdAPICount,
		},
	})
}

// cmdFailNext makes the next N API requests answer 500.
func cmdFailNext(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("failnext does not support negation")
	}
	if len(args) != 1 {
		ts.Fatalf("usage: failnext N")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		ts.Fatalf("failnext: %v", err)
	}
	ts.Value(apiKey{}).(*mockapi.Server).FailNext(n)
}

// cmdAPICount checks how many todos the API holds.
func cmdAPICount(ts *testscript.TestScript, neg bool, args []string) {
	if len(args) != 1 {
		ts.Fatalf("usage: apicount N")
	}
	want, err := strconv.Atoi(args[0])
	if err != nil {
		ts.Fatalf("apicount: %v", err)
	}
	got := len(ts.Value(apiKey{}).(*mockapi.Server).Todos())
	if (got == want) == neg {
		ts.Fatalf("api holds %d todos, want %s%d", got, map[bool]string{true: "not ", false: ""}[neg], want)
	}
}
