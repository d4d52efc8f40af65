package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
)

func DevCmd() *cobra.Command {
	var proxyPort, appPort int

	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Run the server under air, rebuilding on Go, template and seed changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			airPath, err := exec.LookPath("air")
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "air not found, install with: go install github.com/air-verse/air@latest")
				return fmt.Errorf("air not found")
			}

			env := append(os.Environ(), "PORT="+strconv.Itoa(appPort), "APP_ENV=development")
			return syscall.Exec(airPath, airArgs(proxyPort, appPort), env)
		},
	}

	cmd.Flags().IntVar(&proxyPort, "port", 8080, "browser-facing port with live reload")
	cmd.Flags().IntVar(&appPort, "app-port", 8090, "port the server listens on")
	return cmd
}

func airArgs(proxyPort, appPort int) []string {
	return []string{
		"air",
		"-c", "/dev/null",
		"-root", ".",
		"-build.cmd", "go build -o ./tmp/server ./cmd/server",
		"-build.bin", "./tmp/server",
		"-build.delay", "100",
		"-build.exclude_dir", "bin,tmp,data,uploads,_examples",
		"-build.exclude_regex", "_test.go$",
		"-build.include_ext", "go,html,md,sql",
		"-build.send_interrupt", "true",
		"-proxy.enabled", "true",
		"-proxy.proxy_port", strconv.Itoa(proxyPort),
		"-proxy.app_port", strconv.Itoa(appPort),
	}
}
