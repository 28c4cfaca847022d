package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/securematch/securematch/pkg/client"
	"github.com/securematch/securematch/pkg/keyword"
	"github.com/securematch/securematch/pkg/signer"
)

var flagServer *cli.StringFlag = &cli.StringFlag{
	Name:    "server",
	Value:   "http://127.0.0.1:8080",
	Usage:   "securematch server base URL",
	EnvVars: []string{"SECUREMATCH_SERVER"},
}

var flagAuditor *cli.Int64Flag = &cli.Int64Flag{
	Name:     "auditor",
	Usage:    "auditor ID issued by the operator",
	EnvVars:  []string{"SECUREMATCH_AUDITOR_ID"},
	Required: true,
}

var flagKey *cli.StringFlag = &cli.StringFlag{
	Name:     "key",
	Usage:    "path to the auditor's PKCS8 private key PEM file",
	EnvVars:  []string{"SECUREMATCH_KEY_FILE"},
	Required: true,
}

var flagTimeout *cli.DurationFlag = &cli.DurationFlag{
	Name:  "timeout",
	Value: 30 * time.Second,
	Usage: "HTTP request timeout",
}

func main() {
	app := &cli.App{
		Name:  "auditorctl",
		Usage: "sign keyword searches locally and submit them to securematch",
		Commands: []*cli.Command{
			{
				Name:      "hash",
				Usage:     "print the normalized keyword hash",
				ArgsUsage: "<keyword>",
				Action: func(cCtx *cli.Context) error {
					term, err := keywordArg(cCtx)
					if err != nil {
						return err
					}
					fmt.Println(keyword.NormalizeAndHash(term))
					return nil
				},
			},
			{
				Name:      "sign",
				Usage:     "print the keyword hash and its signature without contacting the server",
				ArgsUsage: "<keyword>",
				Flags:     []cli.Flag{flagKey},
				Action: func(cCtx *cli.Context) error {
					term, err := keywordArg(cCtx)
					if err != nil {
						return err
					}
					privateKey, err := readKey(cCtx.String(flagKey.Name))
					if err != nil {
						return err
					}

					hash := keyword.NormalizeAndHash(term)
					sig, err := signer.Sign(hash, privateKey)
					if err != nil {
						return err
					}
					fmt.Printf("keyword_hash: %s\nsignature:    %s\n", hash, sig)
					return nil
				},
			},
			{
				Name:      "search",
				Usage:     "sign and submit an external search",
				ArgsUsage: "<keyword>",
				Flags:     []cli.Flag{flagServer, flagAuditor, flagKey, flagTimeout},
				Action: func(cCtx *cli.Context) error {
					term, err := keywordArg(cCtx)
					if err != nil {
						return err
					}
					privateKey, err := readKey(cCtx.String(flagKey.Name))
					if err != nil {
						return err
					}

					c := client.NewSearchClient(
						cCtx.String(flagServer.Name),
						cCtx.Int64(flagAuditor.Name),
						cCtx.Duration(flagTimeout.Name),
					)
					results, err := c.Search(cCtx.Context, term, privateKey)
					if errors.Is(err, client.ErrNotAuthorized) {
						return cli.Exit("search not authorized", 3)
					}
					if err != nil {
						return err
					}

					enc := json.NewEncoder(os.Stdout)
					enc.SetIndent("", "  ")
					return enc.Encode(results)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func keywordArg(cCtx *cli.Context) (string, error) {
	if cCtx.NArg() != 1 {
		return "", cli.Exit("exactly one keyword argument is required", 2)
	}
	return cCtx.Args().First(), nil
}

func readKey(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read key file: %w", err)
	}
	return string(b), nil
}
