package utils

import (
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/term"
)

// FmtPretty renders v as indented JSON for debug logs. Values that can not be marshalled are printed with %+v.
func FmtPretty(v any) string {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(jsonData)
}

// FmtBytes converts bytes to a printable string with unit
func FmtBytes(bytes uint64) string {
	if bytes > 1024*1024*1024*1024 {
		return fmt.Sprintf("%.1fTiB", float64(bytes)/1024/1024/1024/1024)
	} else if bytes > 1024*1024*1024 {
		return fmt.Sprintf("%.1fGiB", float64(bytes)/1024/1024/1024)
	} else if bytes > 1024*1024 {
		return fmt.Sprintf("%.1fMiB", float64(bytes)/1024/1024)
	} else if bytes > 1024 {
		return fmt.Sprintf("%.1fKiB", float64(bytes)/1024)
	}
	return fmt.Sprintf("%d", bytes)
}

// SubDirectories lists the names of the directories directly below dirPath
func SubDirectories(dirPath string) ([]string, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var directories []string
	for _, entry := range entries {
		if entry.IsDir() {
			directories = append(directories, entry.Name())
		}
	}
	return directories, nil
}

// IsRootUser reports whether the effective user can read vendor tool output and write snap configuration
func IsRootUser() bool {
	return os.Geteuid() == 0
}

func IsTerminalOutput() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
