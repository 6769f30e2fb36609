// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Extractor: Turns raw bytes of a declared format into normalized text
//   - Chunker: Splits normalized text into overlapping, size-bounded chunks
//   - IndexStore: Document and chunk persistence with ranked lexical search
//   - ConfigStore: Key-value configuration persistence
//
// # Optional Interfaces
//
//   - Completer: The answering collaborator. Without it only context
//     assembly is available.
//   - PromptStore: Customisable prompts for the Completer
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
