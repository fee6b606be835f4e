// Package cmd implements the slng CLI commands using Cobra.
//
// Available commands:
//   - run: Execute the requests of request files
//   - preview: Show the masked display view of requests without sending them
//   - validate: Check request files for grammar errors
//   - version: Show slng version information
//
// Configuration is read from .slng.yaml, parameters come from the selected
// environment, a .env file and SLNG_VAR_ prefixed variables.
package cmd
