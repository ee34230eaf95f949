package cli

import (
	"fmt"
	"io"
	"strings"
)

// FlagCompletion describes a CLI flag for shell completion generation.
// Every shell generator reads from flagRegistry, so adding a flag only
// requires appending to it.
type FlagCompletion struct {
	Long      string   // flag name without "--" (e.g., "overflow")
	Help      string   // description text
	Values    []string // suggested completion values (nil = boolean/no suggestions)
	ValueName string   // label for the value in zsh (e.g., "duration")
}

// flagRegistry lists every global flag in help order.
var flagRegistry = []FlagCompletion{
	{Long: "help", Help: "Show help message"},
	{Long: "version", Help: "Show version information"},
	{Long: "overflow", Help: "Overflow policy", Values: []string{"wrap", "fail"}, ValueName: "policy"},
	{Long: "max-terms", Help: "Largest n accepted by fibonacci", Values: []string{"0", "94", "1000", "10000"}, ValueName: "count"},
	{Long: "extensions", Help: "Export fibonacci_exact"},
	{Long: "json", Help: "Print results as JSON"},
	{Long: "no-color", Help: "Disable colored output"},
	{Long: "log-level", Help: "Log level", Values: []string{"debug", "info", "warn", "error", "disabled"}, ValueName: "level"},
	{Long: "addr", Help: "Listen address for serve", Values: []string{":8080", "127.0.0.1:8080"}, ValueName: "address"},
	{Long: "timeout", Help: "Time limit per script, request or call", Values: []string{"1s", "10s", "30s", "1m"}, ValueName: "duration"},
	{Long: "batch-concurrency", Help: "Concurrent calls per batch request", ValueName: "count"},
}

// commandRegistry lists the commands with their completion help.
var commandRegistry = []struct {
	Name string
	Help string
}{
	{"call", "Call a module function"},
	{"list", "List module functions"},
	{"lua", "Run Lua code with the module preloaded"},
	{"repl", "Interactive Lua prompt"},
	{"tui", "Interactive terminal console"},
	{"serve", "Serve the module over HTTP"},
	{"completion", "Print a shell completion script"},
}

// Shells lists the shells GenerateCompletion supports.
var Shells = []string{"bash", "zsh", "fish"}

// GenerateCompletion writes a completion script for shell. functions are the
// module function names offered after "call".
func GenerateCompletion(out io.Writer, shell string, functions []string) error {
	switch shell {
	case "bash":
		return generateBashCompletion(out, functions)
	case "zsh":
		return generateZshCompletion(out, functions)
	case "fish":
		return generateFishCompletion(out, functions)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: %s)", shell, strings.Join(Shells, ", "))
	}
}

func commandNames() []string {
	names := make([]string, len(commandRegistry))
	for i, c := range commandRegistry {
		names[i] = c.Name
	}
	return names
}

func generateBashCompletion(out io.Writer, functions []string) error {
	var opts []string
	for _, f := range flagRegistry {
		opts = append(opts, "--"+f.Long)
	}

	var caseBody strings.Builder
	for _, f := range flagRegistry {
		if len(f.Values) == 0 {
			continue
		}
		fmt.Fprintf(&caseBody, "        --%s)\n", f.Long)
		fmt.Fprintf(&caseBody, "            COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n", strings.Join(f.Values, " "))
		caseBody.WriteString("            return 0\n            ;;\n")
	}

	script := fmt.Sprintf(`# Bash completion script for pydemo
# Add this to your ~/.bashrc or ~/.bash_completion

_pydemo_completions() {
    local cur prev opts commands functions
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    opts="%s"
    commands="%s"
    functions="%s"

    case "${prev}" in
%s        call)
            COMPREPLY=( $(compgen -W "${functions}" -- "${cur}") )
            return 0
            ;;
        completion)
            COMPREPLY=( $(compgen -W "%s" -- "${cur}") )
            return 0
            ;;
        lua)
            COMPREPLY=( $(compgen -f -- "${cur}") )
            return 0
            ;;
    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
    COMPREPLY=( $(compgen -W "${commands}" -- "${cur}") )
}

complete -F _pydemo_completions pydemo
`, strings.Join(opts, " "), strings.Join(commandNames(), " "), strings.Join(functions, " "),
		caseBody.String(), strings.Join(Shells, " "))

	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion bash generation failed: %w", err)
	}
	return nil
}

func generateZshCompletion(out io.Writer, functions []string) error {
	var args []string
	for _, f := range flagRegistry {
		args = append(args, zshArgEntry(f))
	}
	var cmds []string
	for _, c := range commandRegistry {
		cmds = append(cmds, fmt.Sprintf("'%s:%s'", c.Name, c.Help))
	}

	script := fmt.Sprintf(`#compdef pydemo

# Zsh completion script for pydemo
# Add this to your ~/.zshrc or place in $fpath

_pydemo() {
    local -a commands functions
    commands=(%s)
    functions=(%s)

    _arguments -s \
%s \
        '1:command:->command' \
        '*::arg:->args'

    case $state in
        command)
            _describe 'command' commands
            ;;
        args)
            case $words[1] in
                call) _values 'function' $functions ;;
                completion) _values 'shell' %s ;;
                lua) _files ;;
            esac
            ;;
    esac
}

_pydemo "$@"
`, strings.Join(cmds, " "), strings.Join(functions, " "), strings.Join(args, " \\\n"), strings.Join(Shells, " "))

	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion zsh generation failed: %w", err)
	}
	return nil
}

// zshArgEntry formats a single FlagCompletion as a zsh _arguments entry.
func zshArgEntry(f FlagCompletion) string {
	valueSuffix := ""
	if len(f.Values) > 0 {
		valueSuffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
	} else if f.ValueName != "" {
		valueSuffix = fmt.Sprintf(":%s:", f.ValueName)
	}
	return fmt.Sprintf("        '--%s[%s]%s'", f.Long, f.Help, valueSuffix)
}

func generateFishCompletion(out io.Writer, functions []string) error {
	lines := []string{
		"# Fish completion script for pydemo",
		"# Add this to ~/.config/fish/completions/pydemo.fish",
		"",
		"complete -c pydemo -f",
		"",
		"# Commands",
	}
	for _, c := range commandRegistry {
		lines = append(lines, fmt.Sprintf("complete -c pydemo -n '__fish_use_subcommand' -a %s -d '%s'", c.Name, c.Help))
	}
	lines = append(lines,
		"",
		"# Command arguments",
		fmt.Sprintf("complete -c pydemo -n '__fish_seen_subcommand_from call' -xa '%s'", strings.Join(functions, " ")),
		fmt.Sprintf("complete -c pydemo -n '__fish_seen_subcommand_from completion' -xa '%s'", strings.Join(Shells, " ")),
		"complete -c pydemo -n '__fish_seen_subcommand_from lua' -rF",
		"",
		"# Flags",
	)
	for _, f := range flagRegistry {
		lines = append(lines, fishCompleteLine(f))
	}
	lines = append(lines, "")

	if _, err := fmt.Fprint(out, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("completion fish generation failed: %w", err)
	}
	return nil
}

// fishCompleteLine formats a single FlagCompletion as a fish complete command.
func fishCompleteLine(f FlagCompletion) string {
	parts := []string{"complete -c pydemo", "-l " + f.Long, fmt.Sprintf("-d '%s'", f.Help)}
	if len(f.Values) > 0 {
		parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(f.Values, " ")))
	} else if f.ValueName != "" {
		parts = append(parts, "-x")
	}
	return strings.Join(parts, " ")
}
