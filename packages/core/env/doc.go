// Package env turns request files into templates.
//
// It provides:
//   - Params, the named plain, secret and sensitive values of a run
//   - .env loading through godotenv and environment sections from config
//   - Compile, which turns {{...}} placeholders into template slots
//   - SplitRequests, which cuts a request file into named blocks
//
// Placeholders take the forms {{name}}, {{$ENV_VAR}}, {{fn(args)}} and
// {{@request.path}}. A leading "secret" or "sensitive[:N]" modifier masks the
// value, for instance {{secret apiKey}} or {{sensitive:4 @login.token}}.
package env
