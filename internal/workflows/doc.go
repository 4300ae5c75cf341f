// Package workflows provides high-level orchestration for keystash commands.
//
// A workflow resolves the storage root, loads the user settings, opens the
// store and performs one operation. It returns a result struct and never
// prints, so cmd/ only parses flags, calls the workflow and renders what
// comes back. Every options struct embeds Common, which carries the --root
// override and the logger.
//
// # Available Workflows
//
//   - SetKey, GetKey, ValidateKey: API keys stored as secrets
//   - ListItems, DeleteItem: any item
//   - SaveConfig, ShowConfig, MergeConfigs: structured configs
//   - Doctor: health checks over the storage root
//
// # Error Handling
//
// Workflows return sentinel errors from the internal/errors package, so the
// CLI layer can tell "not found" apart from "cannot decrypt":
//
//	result, err := workflows.GetKey(ctx, opts)
//	if errors.Is(err, kerrors.ErrItemNotFound) {
//	    // Suggest keystash key set
//	}
//
// # Context Usage
//
// All workflow functions accept a context.Context as their first parameter
// and check it before touching the store. ValidateKey and SetKey pass it on
// to the validator's HTTP call.
package workflows
