package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/txapi-io/txapi-client/internal/constants"
	"github.com/txapi-io/txapi-client/pkg/txapi"
	"github.com/txapi-io/txapi-client/pkg/txclient"
)

const masked = "***"

// createClient builds an API client from the effective CLI
// configuration. Flag values win over the config file, which wins over
// the TXAPI_* environment variables.
func createClient() (txapi.Client, error) {
	endpoint := viper.GetString("api")
	if endpoint == "" {
		endpoint = os.Getenv(constants.EnvEndpoint)
	}

	if endpoint == "" {
		return nil, constants.ErrNoEndpointConfigured
	}

	// viper already resolved the key from flag, config file, or the
	// TXAPI_API_KEY variable. An empty key means anonymous access.
	config := &txapi.Config{
		Endpoint: endpoint,
		APIKey:   viper.GetString("api_key"),
	}

	if viper.GetBool("verbose") {
		config.Debug = true
		config.Logger = stderrLogger{}
	}

	client, err := txclient.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

// parseFieldArgs converts key=value pairs into an argument bag,
// inferring int, float, and bool values so the backend receives typed
// JSON instead of strings.
func parseFieldArgs(pairs []string) (txapi.Args, error) {
	args := txapi.Args{}

	for _, pair := range pairs {
		parts := strings.SplitN(pair, "=", constants.KeyValueSplitParts)
		if len(parts) != constants.KeyValueSplitParts || parts[0] == "" {
			return nil, fmt.Errorf("argument %q: %w", pair, constants.ErrInvalidKeyValue)
		}

		args[parts[0]] = inferValue(parts[1])
	}

	return args, nil
}

func inferValue(raw string) any {
	if number, err := strconv.Atoi(raw); err == nil {
		return number
	}

	if number, err := strconv.ParseFloat(raw, 64); err == nil {
		return number
	}

	switch raw {
	case constants.BooleanTrue:
		return true
	case constants.BooleanFalse:
		return false
	}

	return raw
}

// renderEnvelope prints a response in the requested output format.
// Table output adapts to the result shape: record list, single record,
// or the status message.
func renderEnvelope(env *txapi.Envelope, output string) error {
	switch output {
	case constants.FormatJSON:
		return renderJSON(env)
	case constants.FormatYAML:
		return renderYAML(envelopeDocument(env))
	case constants.FormatTable, "":
		return renderEnvelopeTable(env)
	default:
		return fmt.Errorf("output format %q: %w", output, constants.ErrUnknownOutputFormat)
	}
}

func renderJSON(data any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", strings.Repeat(" ", constants.JSONIndentSize))

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

func renderYAML(data any) error {
	encoder := yaml.NewEncoder(os.Stdout)

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return encoder.Close()
}

// envelopeDocument flattens an envelope for YAML output, where the raw
// JSON result would otherwise render as a byte array.
func envelopeDocument(env *txapi.Envelope) map[string]any {
	doc := map[string]any{
		"success": env.Success,
		"info":    env.Info,
	}

	var result any
	if len(env.Result) > 0 {
		if err := env.DecodeResult(&result); err == nil {
			doc["result"] = result
		}
	}

	return doc
}

func renderEnvelopeTable(env *txapi.Envelope) error {
	trimmed := strings.TrimSpace(string(env.Result))
	if trimmed == "" || trimmed == "null" {
		_, _ = fmt.Fprintf(os.Stdout, "%s (code: %d)\n", env.Info.Message, env.Info.Code)

		return nil
	}

	if records, err := env.Records(); err == nil {
		err = renderRecordsTable(records)
		if err != nil {
			return err
		}

		if env.Info.TotalPages > 1 {
			_, _ = fmt.Fprintf(os.Stdout, "\nPage %d of %d (%d results). Use --all to fetch every page.\n",
				env.Info.Page, env.Info.TotalPages, env.Info.TotalResults)
		}

		return nil
	}

	if record, err := env.Record(); err == nil {
		return renderRecordTable(record)
	}

	return renderJSON(env)
}

func renderRecordsTable(records []txapi.Record) error {
	if len(records) == 0 {
		_, _ = os.Stdout.WriteString("No records found\n")

		return nil
	}

	columns := recordColumns(records)

	table := tablewriter.NewWriter(os.Stdout)

	header := make([]any, 0, len(columns)+1)
	header = append(header, "ID")

	for _, column := range columns {
		header = append(header, column)
	}

	table.Header(header...)

	for _, record := range records {
		row := make([]any, 0, len(columns)+1)
		row = append(row, strconv.Itoa(record.ID))

		for _, column := range columns {
			row = append(row, formatField(record.Fields[column]))
		}

		_ = table.Append(row...)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func renderRecordTable(record *txapi.Record) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")
	_ = table.Append("ID", strconv.Itoa(record.ID))

	columns := make([]string, 0, len(record.Fields))
	for column := range record.Fields {
		columns = append(columns, column)
	}

	sort.Strings(columns)

	for _, column := range columns {
		_ = table.Append(column, formatField(record.Fields[column]))
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// recordColumns returns the union of field names across records, in
// stable order.
func recordColumns(records []txapi.Record) []string {
	seen := map[string]bool{}

	for _, record := range records {
		for key := range record.Fields {
			seen[key] = true
		}
	}

	columns := make([]string, 0, len(seen))
	for key := range seen {
		columns = append(columns, key)
	}

	sort.Strings(columns)

	return columns
}

func formatField(value any) string {
	if value == nil {
		return ""
	}

	return txapi.FormatValue(value)
}

// parseRecordID parses a positional ID argument. Zero and negative
// values are rejected here so the CLI reports the raw argument instead
// of the collection client's formatted id.
func parseRecordID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("record id %q: %w", raw, constants.ErrInvalidRecordID)
	}

	return id, nil
}

// renderIDs prints a flat id list gathered across pages.
func renderIDs(ids []int, output string) error {
	switch output {
	case constants.FormatJSON:
		return renderJSON(map[string][]int{"ids": ids})
	case constants.FormatYAML:
		return renderYAML(map[string][]int{"ids": ids})
	case constants.FormatTable, "":
	default:
		return fmt.Errorf("output format %q: %w", output, constants.ErrUnknownOutputFormat)
	}

	if len(ids) == 0 {
		_, _ = os.Stdout.WriteString("No records found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID")

	for _, id := range ids {
		_ = table.Append(strconv.Itoa(id))
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// renderRecords prints records gathered across pages.
func renderRecords(records []txapi.Record, output string) error {
	switch output {
	case constants.FormatJSON:
		return renderJSON(records)
	case constants.FormatYAML:
		return renderYAML(recordDocuments(records))
	case constants.FormatTable, "":
		return renderRecordsTable(records)
	default:
		return fmt.Errorf("output format %q: %w", output, constants.ErrUnknownOutputFormat)
	}
}

// recordDocuments flattens records for YAML output the same way their
// JSON form looks: the id next to the model fields.
func recordDocuments(records []txapi.Record) []map[string]any {
	docs := make([]map[string]any, 0, len(records))

	for _, record := range records {
		doc := make(map[string]any, len(record.Fields)+1)
		for key, value := range record.Fields {
			doc[key] = value
		}

		doc["id"] = record.ID
		docs = append(docs, doc)
	}

	return docs
}

// renderActions prints an action directory sorted by action name.
func renderActions(actions map[string]string, output string) error {
	switch output {
	case constants.FormatJSON:
		return renderJSON(actions)
	case constants.FormatYAML:
		return renderYAML(actions)
	case constants.FormatTable, "":
	default:
		return fmt.Errorf("output format %q: %w", output, constants.ErrUnknownOutputFormat)
	}

	names := make([]string, 0, len(actions))
	for name := range actions {
		names = append(names, name)
	}

	sort.Strings(names)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Action", "Path")

	for _, name := range names {
		_ = table.Append(name, actions[name])
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// stderrLogger adapts --verbose output to the txapi.Logger interface.
type stderrLogger struct{}

func (stderrLogger) Debug(msg string, fields map[string]interface{}) { logLine("DEBUG", msg, fields) }
func (stderrLogger) Info(msg string, fields map[string]interface{})  { logLine("INFO", msg, fields) }
func (stderrLogger) Warn(msg string, fields map[string]interface{})  { logLine("WARN", msg, fields) }
func (stderrLogger) Error(msg string, fields map[string]interface{}) { logLine("ERROR", msg, fields) }

func logLine(level, msg string, fields map[string]interface{}) {
	var builder strings.Builder

	builder.WriteString(level)
	builder.WriteString(" ")
	builder.WriteString(msg)

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		fmt.Fprintf(&builder, " %s=%v", key, fields[key])
	}

	fmt.Fprintln(os.Stderr, builder.String())
}
