package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gyeh/costfeed/internal/config"
)

var (
	cfg        config.Config
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "feedpull",
	Short: "SFTP/FTP cost-feed puller",
	Long:  "Pulls matching files from a remote SFTP or FTP endpoint into local storage, verifies them, and reports what happened. Also renders metric definitions into warehouse queries.",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "Path to YAML config file")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
}

// addRemoteFlags registers the connection flags shared by the commands that
// talk to the transfer endpoint.
func addRemoteFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&cfg.Host, "host", "", "Remote host")
	f.IntVar(&cfg.Port, "port", 0, "Remote port (default 22 for sftp, 21 for ftp)")
	f.StringVar(&cfg.Username, "user", "", "Remote username")
	f.StringVar(&cfg.Password, "password", os.Getenv("FEEDPULL_PASSWORD"), "Remote password (or set FEEDPULL_PASSWORD)")
	f.StringVar(&cfg.RemoteDir, "remote-dir", "", "Remote directory to list")
	f.StringVar(&cfg.Transport, "transport", "", "Transfer protocol: sftp or ftp (default sftp)")
	f.StringVar(&cfg.FilenameGlob, "glob", "", "Filename glob to match (default *)")
	f.DurationVar(&cfg.ConnectTimeout, "connect-timeout", 0, "Connect timeout (default 30s)")
}

// ensurePassword prompts on the terminal when no password was supplied by
// flag or environment. A non-terminal stdin is left alone so anonymous FTP
// and scripted runs keep working.
func ensurePassword() error {
	if cfg.Password != "" {
		return nil
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil
	}
	fmt.Fprintf(os.Stderr, "Password for %s@%s: ", cfg.Username, cfg.Host)
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	cfg.Password = string(pw)
	return nil
}
