package e2e_test

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build the binary before all E2E tests.
	tmp, err := os.MkdirTemp("", "crunner-e2e-test")
	if err != nil {
		panic(err)
	}

	binaryPath = filepath.Join(tmp, "crunner")
	// Build from the module root (two levels up from test/e2e/).
	moduleRoot, err := filepath.Abs(filepath.Join("..", ".."))
	if err != nil {
		panic(err)
	}
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	cmd.Dir = moduleRoot
	if out, err := cmd.CombinedOutput(); err != nil {
		panic("build failed: " + string(out))
	}

	code := m.Run()
	os.RemoveAll(tmp)
	os.Exit(code)
}

// runCLI runs the binary with an empty HOME and no signing key. None of
// these invocations reach the network.
func runCLI(t *testing.T, args ...string) (stdout, stderr string, exitCode int) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), "HOME="+t.TempDir(), "CRUNNER_SETTER_SECRETKEY=", "CRUNNER_KEYRING_REF=")
	var out, errOut strings.Builder
	cmd.Stdout = &out
	cmd.Stderr = &errOut
	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	} else {
		require.NoError(t, err)
	}
	return out.String(), errOut.String(), exitCode
}

const contractAddr = "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

func TestVersionFlag(t *testing.T) {
	out, _, code := runCLI(t, "--version")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "crunner")
}

func TestHelp(t *testing.T) {
	out, _, code := runCLI(t, "--help")
	assert.Equal(t, 0, code)
	for _, flag := range []string{"--address", "--chain", "--fn-name", "--rpc-eth", "--fn-ret-type",
		"--ensure-setter", "--params", "--dry-run-estimate-gas", "--estimate-gas-from-addr",
		"--block-confirmations", "--abi-filepath"} {
		assert.Contains(t, out, flag)
	}
}

func TestMissingRequiredFlags(t *testing.T) {
	out, errOut, code := runCLI(t, "--chain", "bsc")
	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "required flag")
}

func TestUnknownChain(t *testing.T) {
	out, errOut, code := runCLI(t, "-c", "solana", "-a", contractAddr, "-f", "balance", "--rpc-eth")
	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "chain not found")
}

func TestInvalidAddress(t *testing.T) {
	out, errOut, code := runCLI(t, "-c", "bsc", "-a", "0x1234", "-f", "balance", "--rpc-eth")
	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "validation error")
}

func TestWriteWithoutKey(t *testing.T) {
	abiPath := filepath.Join(t.TempDir(), "abi.json")
	require.NoError(t, os.WriteFile(abiPath,
		[]byte(`[{"type":"function","name":"pause","inputs":[],"outputs":[],"stateMutability":"nonpayable"}]`), 0o600))

	out, errOut, code := runCLI(t, "-c", "ethereum", "-a", contractAddr, "-f", "pause",
		"--abi-filepath", abiPath, "--ensure-setter")
	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "CRUNNER_SETTER_SECRETKEY")
}

func TestRawRPCWithSetterIsRejected(t *testing.T) {
	_, errOut, code := runCLI(t, "-c", "bsc", "-a", contractAddr, "-f", "balance", "--rpc-eth", "--ensure-setter")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "rpc-eth")
}
