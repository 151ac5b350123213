package cmd

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/omniverse-transformer/pkg/crypto"
	"github.com/spf13/cobra"
)

type generateKeypairCmdOptions struct {
	Path  string
	Force bool
}

func NewGenerateKeypairCommand() *cobra.Command {
	opts := &generateKeypairCmdOptions{}

	cmd := &cobra.Command{
		Use:   "generate-keypair",
		Short: "Generate a new transformer keypair and print its Omniverse and local addresses",
		RunE: func(cmd *cobra.Command, args []string) error {
			return generateKeypairHandler(opts, cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Path, "path", "/data/keys", `Path to save to key pair file`)
	flags.BoolVar(&opts.Force, "force", false, "Replace an existing private key without prompt")

	return cmd
}

func generateKeypairHandler(opts *generateKeypairCmdOptions, cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Generating key pair\n")

	client, err := crypto.Generate()
	if err != nil {
		return errors.Wrap(err, "generate key pair")
	}
	publicKey := hex.EncodeToString(client.PublicKey())
	fmt.Fprintf(out, "Public key: %s\n", publicKey)
	fmt.Fprintf(out, "Omniverse address: %s\n", client.Address())
	fmt.Fprintf(out, "Local address: %s\n", client.LocalAddress())

	if err := writeKeypair(out, cmd.InOrStdin(), opts, client); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

func writeKeypair(out io.Writer, in io.Reader, opts *generateKeypairCmdOptions, client *crypto.Client) error {
	if err := os.MkdirAll(opts.Path, 0o755); err != nil {
		return errors.Wrap(err, "create directory")
	}

	privateKeyPath := path.Join(opts.Path, "priv.key")
	if _, err := os.Stat(privateKeyPath); err == nil && !opts.Force {
		fmt.Fprintf(out, "Existing private key found at %s\n[WARNING] THE EXISTING PRIVATE KEY WILL BE LOST\nType [replace] to replace existing private key: ", privateKeyPath)
		var ans string
		fmt.Fscanln(in, &ans)
		if ans != "replace" {
			fmt.Fprintf(out, "Keypair generation aborted\n")
			return nil
		}
	}

	if err := os.WriteFile(privateKeyPath, []byte(client.PrivateKeyHex()), 0o600); err != nil {
		return errors.Wrap(err, "write private key file")
	}
	fmt.Fprintf(out, "Private key saved at %s\n", privateKeyPath)

	publicKeyPath := path.Join(opts.Path, "pub.key")
	if err := os.WriteFile(publicKeyPath, []byte(hex.EncodeToString(client.PublicKey())), 0o644); err != nil {
		return errors.Wrap(err, "write public key file")
	}
	fmt.Fprintf(out, "Public key saved at %s\n", publicKeyPath)
	return nil
}
