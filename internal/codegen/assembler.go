package codegen

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// CompileToExecutable takes assembly code and produces a runnable binary
// The program calls calloc and printf, so it is linked against libc.
func CompileToExecutable(assembly string, outputPath string) error {
	// Create temp directory
	tmpDir, err := os.MkdirTemp("", "mjc-compile-")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	// Write assembly to file
	asmPath := filepath.Join(tmpDir, "program.s")
	if err := os.WriteFile(asmPath, []byte(assembly), 0o644); err != nil {
		return fmt.Errorf("failed to write assembly: %w", err)
	}

	// Assemble: as program.s -o program.o
	objPath := filepath.Join(tmpDir, "program.o")
	cmd := exec.Command("as", asmPath, "-o", objPath)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("assembler failed: %w\n%s", err, output)
	}

	// Link through gcc so the C runtime and libc come along
	cmd = exec.Command("gcc", objPath, "-o", outputPath)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("linker failed: %w\n%s", err, output)
	}

	return nil
}

// ToolchainAvailable reports whether as and gcc are on PATH
func ToolchainAvailable() bool {
	for _, tool := range []string{"as", "gcc"} {
		if _, err := exec.LookPath(tool); err != nil {
			return false
		}
	}
	return true
}
