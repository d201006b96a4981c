// Package facet shapes API resources before they are encoded for a client.
//
// A Resource wraps one model; a Collection wraps many. Either can carry an
// ordered list of policies and an ordered list of transformers:
//
//   - Policy: decides which fields of a model are hidden and which are shown.
//     Policies mutate the model's visibility state before serialization.
//   - Transformer: rewrites the serialized mapping after the model has
//     produced it.
//
// Both are folded strictly in attachment order, and neither folding is
// commutative: a later policy showing a field overrides an earlier policy
// hiding it, and a later transformer writing a key overwrites an earlier one.
//
// # Basic Usage
//
//	person := facet.NewAttributes(map[string]any{
//	    "first_name": "John",
//	    "last_name":  "Doe",
//	})
//
//	data, _ := facet.NewResource(person).
//	    ApplyPolicy(facet.Hide("first_name")).
//	    ApplyTransformer(facet.Set("test", "test")).
//	    ToArray(ctx)
//	// map[last_name:Doe test:test]
//
// # Pipelines
//
// A Pipeline bundles policies and transformers for reuse. Applying it to a
// resource replaces the resource's own sequences:
//
//	admin := facet.NewPipeline().
//	    AddPolicy(facet.Show("email")).
//	    AddTransformer(facet.Mask("email", facet.MaskEmail))
//
//	facet.NewResource(user).ApplyPipeline(admin)
//
// # Collections
//
// Collections remap raw items into a registered resource type. Factories
// declare how many extra arguments they need; the collection captures those
// arguments once and shares them across every item:
//
//	facet.Register("coin", 1, func(item any, args ...any) (*CoinResource, error) {
//	    return NewCoinResource(item, args[0].(*HeadsOrTails)), nil
//	})
//
//	people, err := facet.NewCollection("coin", models, coin)
//	rows, err := people.ApplyPolicy(facet.Hide("first_name")).ToArray(ctx)
//
// Policies and transformers attached to a collection reach every item that
// implements Extendable.
//
// # Models
//
// Policies act on the Model contract. Attributes is a map-backed model;
// Struct wraps a Go struct, keyed by json tag names, with fields tagged
// facet:"hidden" hidden by default. Embed Visibility to make any type a Model.
//
// # Built-in Transformers
//
//   - Set, Rename, Only, Except, Require: structural rewrites
//   - CaseKeys: key case conversion (snake, camel, lower_camel, kebab)
//   - Mask: ssn, email, phone, card, name
//   - Redact: fixed replacement
//   - Hash: argon2, bcrypt, sha256, sha512
//   - Encrypt/Decrypt: AES-GCM and envelope encryption
//
// # Encoding
//
// Marshal serializes a resource or collection, nests it under "data", and
// encodes it with a Codec. Codec implementations are submodules:
//
//   - json - application/json
//   - yaml - application/yaml
//   - msgpack - application/msgpack
//   - bson - application/bson
package facet
