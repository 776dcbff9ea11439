package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/clf-downloader/clf/internal/types"
	"github.com/clf-downloader/clf/internal/utils"
)

// readLinksFromFile reads download links from a file, one per line.
// Blank lines and lines starting with # are skipped.
func readLinksFromFile(filepath string) ([]string, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var links []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			links = append(links, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return links, nil
}

// readLinksFromClipboard splits the clipboard text into links, one per line.
func readLinksFromClipboard() ([]string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read clipboard: %w", err)
	}
	var links []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			links = append(links, line)
		}
	}
	return links, nil
}

// parseTriggers turns links into trigger requests. service is applied to
// links that carry no service of their own.
func parseTriggers(links []string, service string) ([]types.TriggerRequest, error) {
	reqs := make([]types.TriggerRequest, 0, len(links))
	for _, link := range links {
		req, err := utils.ParseDownloadLink(link)
		if err != nil {
			return nil, err
		}
		if req.Service == "" && service != "" {
			req.Service = service
		}
		if _, err := req.Path(); err != nil {
			return nil, fmt.Errorf("%q: %w", link, err)
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

// commandContext returns the command's context, or Background when the
// command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
