// Package cmd provides helpers for executing shell commands with proper error handling.
//
// [RunContext] and [OutputContext] wrap [os/exec.CommandContext] to capture
// stderr and include it in error messages, making command failures more
// informative for users. Each invocation is logged through the logger stored
// in the context (see [github.com/raphi011/gqc/internal/log]) when verbose
// output is enabled.
//
// # Usage
//
//	if err := cmd.RunContext(ctx, repoPath, "git", "fetch", "--all"); err != nil {
//	    // err contains stderr output if available
//	    return fmt.Errorf("fetch: %w", err)
//	}
//
//	out, err := cmd.OutputContext(ctx, repoPath, "git", "branch", "--show-current")
//
// A cancelled context is reported as [context.Canceled] rather than the
// "signal: killed" error produced by the child process.
package cmd
