package facet

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for facet events.
var (
	SignalResourceSerialized   = capitan.NewSignal("facet.resource.serialized", "Resource serialized into a mapping")
	SignalCollectionMapped     = capitan.NewSignal("facet.collection.mapped", "Collection items remapped into a registered type")
	SignalCollectionSerialized = capitan.NewSignal("facet.collection.serialized", "Collection serialized into mappings")
	SignalFactoryRegistered    = capitan.NewSignal("facet.factory.registered", "Resource factory registered")
	SignalMarshalComplete      = capitan.NewSignal("facet.marshal.complete", "Serialized output encoded by a codec")
)

// Keys for typed event data.
var (
	KeyTypeName         = capitan.NewStringKey("type_name")
	KeyCollects         = capitan.NewStringKey("collects")
	KeyContentType      = capitan.NewStringKey("content_type")
	KeyItemCount        = capitan.NewIntKey("item_count")
	KeyPolicyCount      = capitan.NewIntKey("policy_count")
	KeyTransformerCount = capitan.NewIntKey("transformer_count")
	KeyArity            = capitan.NewIntKey("arity")
	KeySize             = capitan.NewIntKey("size")
	KeyDuration         = capitan.NewDurationKey("duration")
	KeyError            = capitan.NewErrorKey("error")
)

// emitResourceSerialized emits an event when a resource finishes serializing.
func emitResourceSerialized(ctx context.Context, typeName string, policies, transformers int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyTypeName.Field(typeName),
		KeyPolicyCount.Field(policies),
		KeyTransformerCount.Field(transformers),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalResourceSerialized, fields...)
	} else {
		capitan.Emit(ctx, SignalResourceSerialized, fields...)
	}
}

// emitCollectionMapped emits an event when raw items are remapped.
func emitCollectionMapped(ctx context.Context, collects string, items, arity int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyCollects.Field(collects),
		KeyItemCount.Field(items),
		KeyArity.Field(arity),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalCollectionMapped, fields...)
	} else {
		capitan.Emit(ctx, SignalCollectionMapped, fields...)
	}
}

// emitCollectionSerialized emits an event when a collection finishes serializing.
func emitCollectionSerialized(ctx context.Context, collects string, items, policies, transformers int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyCollects.Field(collects),
		KeyItemCount.Field(items),
		KeyPolicyCount.Field(policies),
		KeyTransformerCount.Field(transformers),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalCollectionSerialized, fields...)
	} else {
		capitan.Emit(ctx, SignalCollectionSerialized, fields...)
	}
}

// emitFactoryRegistered emits an event when a factory is registered.
func emitFactoryRegistered(ctx context.Context, name, typeName string, arity int) {
	capitan.Emit(ctx, SignalFactoryRegistered,
		KeyCollects.Field(name),
		KeyTypeName.Field(typeName),
		KeyArity.Field(arity),
	)
}

// emitMarshalComplete emits an event when encoding finishes.
func emitMarshalComplete(ctx context.Context, contentType string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalMarshalComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalMarshalComplete, fields...)
	}
}
