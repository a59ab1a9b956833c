package divisionintegrationtests

import (
	"context"
	"flag"
	"log"
	"os"
	"testing"

	"github.com/Black-And-White-Club/dart-league/integration_tests/testutils"
)

var env *testutils.TestEnvironment

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		log.Println("Skipping division integration tests in short mode")
		os.Exit(0)
	}

	var err error
	env, err = testutils.NewTestEnvironment(context.Background(), testutils.Options{})
	if err != nil {
		log.Printf("Skipping division integration tests: %v", err)
		os.Exit(0)
	}

	code := m.Run()
	env.Close()
	os.Exit(code)
}
