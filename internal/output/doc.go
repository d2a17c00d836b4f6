// Package output provides structured output handling for the episode CLI.
//
// The interactive authoring flow and the helper subcommands share one
// Printer. Helper subcommands (drafts, next) may switch it to JSON mode;
// the wizard always runs in human mode.
//
// # Printer
//
//	printer := output.NewPrinter(cmd.OutOrStdout(), false, output.IsTTY(cmd.OutOrStdout()))
//	printer.Prompt("Episode title: ")
//	printer.Notice("Created %s", path)
//	printer.Warn("placeholder file not found at %s", path)
//	printer.Table([]string{"ID", "Title"}, rows)
//
// Styles are lipgloss styles and are cleared when output is not a terminal,
// so piped output never carries ANSI escapes. Tables are rendered with
// go-pretty: rounded borders on a TTY, bare aligned columns otherwise.
//
// # Exit Codes
//
//	output.ExitSuccess     // 0
//	output.ExitUserError   // 1: bad input, input closed mid-session
//	output.ExitSystemError // 2: I/O failure
//	output.ExitConflict    // 3: episode file exists, session locked
//
// Errors built with NewUserError, NewSystemError and NewConflictError carry
// their exit code; GetExitCode maps any error to a process exit status.
package output
