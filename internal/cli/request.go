package cli

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kochabx/restclient"
	"github.com/kochabx/restclient/config"
	"github.com/kochabx/restclient/log"
)

const defaultContentType = "application/json"

// newRequestCmd builds the subcommand for one HTTP method. Commands with a
// body accept --data and --content-type.
func newRequestCmd(name string, withBody bool) *cobra.Command {
	method := strings.ToUpper(name)
	cmd := &cobra.Command{
		Use:   name + " URL",
		Short: fmt.Sprintf("Send a %s request", method),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(cmd, method, args[0])
		},
	}
	if withBody {
		cmd.Flags().StringP("data", "d", "", "Request body; @file reads it from file")
		cmd.Flags().StringP("content-type", "t", defaultContentType, "Content-Type of the body")
	}
	return cmd
}

func runRequest(cmd *cobra.Command, method, url string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := log.NewFromConfig(cfg.Log, log.WithComponent("restclient"))
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	opts := []restclient.Option{
		restclient.WithConfig(cfg),
		restclient.WithLogger(logger),
	}
	rawHeaders, _ := cmd.Flags().GetStringArray("header")
	for _, h := range parseHeaders(rawHeaders) {
		opts = append(opts, restclient.WithHeader(h[0], h[1]))
	}

	client, err := restclient.New(opts...)
	if err != nil {
		return err
	}
	defer client.Disable()

	var contentType, data string
	if cmd.Flags().Lookup("data") != nil {
		contentType, _ = cmd.Flags().GetString("content-type")
		raw, _ := cmd.Flags().GetString("data")
		if data, err = readData(raw); err != nil {
			return err
		}
	}

	resp := client.Do(cmd.Context(), method, url, contentType, data)
	if resp.Failed() {
		return fmt.Errorf("transfer failed (code %d): %s", resp.Code, resp.Body)
	}

	include, _ := cmd.Flags().GetBool("include")
	return printResponse(cmd.OutOrStdout(), resp, include)
}

// loadConfig reads --config and the environment, then applies the flags
// the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	loader := config.NewFileLoader(file)
	cfg := new(config.Config)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	// 配置文件或环境变量中显式给出的 timeout（包括 0）优先于 flag 默认值
	flags := cmd.Flags()
	if flags.Changed("timeout") || !loader.Configured("timeout") {
		cfg.Timeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("follow") {
		cfg.FollowRedirects, _ = flags.GetBool("follow")
	}
	if flags.Changed("backend") {
		cfg.Transport, _ = flags.GetString("backend")
	}
	if flags.Changed("insecure") {
		cfg.InsecureSkipVerify, _ = flags.GetBool("insecure")
	}
	if verbose, _ := flags.GetBool("verbose"); verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// parseHeaders splits "Name: value" pairs; entries without a colon are ignored.
func parseHeaders(raw []string) [][2]string {
	headers := make([][2]string, 0, len(raw))
	for _, h := range raw {
		name, value, ok := strings.Cut(h, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		headers = append(headers, [2]string{name, strings.TrimSpace(value)})
	}
	return headers
}

func readData(raw string) (string, error) {
	file, ok := strings.CutPrefix(raw, "@")
	if !ok {
		return raw, nil
	}
	b, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("failed to read request body: %w", err)
	}
	return string(b), nil
}

// printResponse writes the status line, the headers when include is set,
// and the body.
func printResponse(w io.Writer, resp restclient.Response, include bool) error {
	if _, err := fmt.Fprintf(w, "%d %s\n", resp.Code, http.StatusText(resp.Code)); err != nil {
		return err
	}
	if include {
		if _, err := io.WriteString(w, resp.Headers.String()+"\n"); err != nil {
			return err
		}
	}
	if resp.Body == "" {
		return nil
	}
	_, err := io.WriteString(w, resp.Body)
	if err == nil && !strings.HasSuffix(resp.Body, "\n") {
		_, err = io.WriteString(w, "\n")
	}
	return err
}
