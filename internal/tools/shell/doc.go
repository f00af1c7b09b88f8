// Package shell provides homelab shell execution tools: arbitrary
// commands, bash scripts, project build/test invocation, and git
// porcelain operations used by the git shadow job.
//
// Tools:
//   - run_command: Execute a shell command
//   - bash: Execute a bash script
//   - run_build: Execute project build command
//   - run_tests: Execute project test command
//   - git_diff, git_log, git_operation: Git working-tree operations
package shell
