package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"browser-tool/internal/application/port/output"
	"browser-tool/internal/di"
	"browser-tool/internal/domain/adapter"

	"github.com/spf13/cobra"
)

const (
	formatNative    = "native"
	formatOpenAI    = "openai"
	formatLangChain = "langchain"
)

var flagFormat string

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the tool definition",
	Long: `Print the tool definition.

Formats:
  native     name, description and JSON schema of the parameters
  openai     go-openai function tools
  langchain  name and description as a langchaingo agent sees the tool`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeSchema(cmd.OutOrStdout(), di.SchemaRegistry(), flagFormat)
	},
}

func init() {
	schemaCmd.Flags().StringVar(&flagFormat, "format", formatNative, "Output format: native, openai or langchain")
}

type langChainTool struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func writeSchema(out io.Writer, registry output.ToolRegistry, format string) error {
	var payload any
	switch format {
	case formatNative:
		payload = registry.Definitions()
	case formatOpenAI:
		payload = adapter.OpenAITools(registry)
	case formatLangChain:
		lcTools := adapter.LangChainTools(registry)
		described := make([]langChainTool, 0, len(lcTools))
		for _, t := range lcTools {
			described = append(described, langChainTool{Name: t.Name(), Description: t.Description()})
		}
		payload = described
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
