package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hpcloud/tail"
	"github.com/spf13/cobra"

	"github.com/gitscribe/gitscribe/cli"
	"github.com/gitscribe/gitscribe/pkg/paths"
)

// How often the follower rescans the log directory for a newer dated
// file after the midnight rollover.
const logPollInterval = 500 * time.Millisecond

// NewLogsCmd creates the logs command.
func NewLogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "View bot logs",
		Long: `View logs written by the bot.

Reads the dated log files from the log directory. By default the most
recent file is printed; use --follow to stream new lines as they are
written, surviving the daily rollover.`,
		RunE: runLogs,
	}
	cmd.Flags().BoolP("follow", "f", false, "Follow log output")
	cmd.Flags().IntP("tail", "n", -1, "Number of lines to show from the end (default: all)")
	return cmd
}

func runLogs(cmd *cobra.Command, args []string) error {
	opts := cli.GetOptions(cmd)
	follow, _ := cmd.Flags().GetBool("follow")
	tailN, _ := cmd.Flags().GetInt("tail")

	dir := paths.LogDir()
	latest, err := findLatestLogFile(dir)
	if err != nil {
		return fmt.Errorf("no logs found in %s (has the bot run yet?)", dir)
	}

	if !follow {
		return printLastLines(latest, tailN, opts.JSONOutput)
	}
	if tailN >= 0 {
		if err := printLastLines(latest, tailN, opts.JSONOutput); err != nil {
			return err
		}
	}
	return followLogs(dir, latest, opts.JSONOutput)
}

// findLatestLogFile returns the most recently modified log file in dir,
// preferring non-empty files so a freshly rolled empty file does not
// hide yesterday's logs.
func findLatestLogFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var newest, newestNonEmpty string
	var newestTime, newestNonEmptyTime time.Time
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if info.ModTime().After(newestTime) {
			newest, newestTime = path, info.ModTime()
		}
		if info.Size() > 0 && info.ModTime().After(newestNonEmptyTime) {
			newestNonEmpty, newestNonEmptyTime = path, info.ModTime()
		}
	}

	if newestNonEmpty != "" {
		return newestNonEmpty, nil
	}
	if newest != "" {
		return newest, nil
	}
	return "", fmt.Errorf("no log files in %s", dir)
}

// printLastLines prints the final n lines of the file, or the whole
// file when n is negative.
func printLastLines(path string, n int, jsonOut bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	if n >= 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	for _, line := range lines {
		printLogLine(line, jsonOut)
	}
	return nil
}

// followLogs tails path and switches to newer dated files as the
// logger rolls over at midnight.
func followLogs(dir, path string, jsonOut bool) error {
	for {
		t, err := tail.TailFile(path, tail.Config{
			Follow:   true,
			ReOpen:   true,
			Location: &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd},
			Logger:   stdlog.New(io.Discard, "", 0),
		})
		if err != nil {
			return err
		}

		ticker := time.NewTicker(logPollInterval)
		rolled := false
		for !rolled {
			select {
			case line, ok := <-t.Lines:
				if !ok {
					rolled = true
					continue
				}
				if line.Err != nil {
					continue
				}
				printLogLine(line.Text, jsonOut)
			case <-ticker.C:
				if latest, err := findLatestLogFile(dir); err == nil && latest != path {
					path = latest
					rolled = true
				}
			}
		}
		ticker.Stop()
		t.Stop()
	}
}

// printLogLine echoes a line in the operator's configured format. With
// --json, lines that are not already JSON get wrapped so the stream
// stays machine-readable.
func printLogLine(line string, jsonOut bool) {
	if !jsonOut || json.Valid([]byte(line)) {
		fmt.Println(line)
		return
	}
	wrapped, err := json.Marshal(map[string]string{"message": line})
	if err != nil {
		return
	}
	fmt.Println(string(wrapped))
}
