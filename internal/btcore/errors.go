package btcore

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/joeycumines/btport/internal/safeany"
)

var (
	// ErrConversion is wrapped by every recoverable text conversion failure.
	ErrConversion = errors.New("btcore: conversion failed")

	// ErrNoStringRepresentation is wrapped by the error ToStr returns for
	// a type with no registered renderer.
	ErrNoStringRepresentation = errors.New("btcore: no string representation")

	// ErrUnknownType is returned when a type name is not registered.
	ErrUnknownType = errors.New("btcore: unknown type")

	// ErrNoConverter is returned by ConverterRegistry.Convert for types that
	// deliberately have no converter, such as AnyTypeAllowed.
	ErrNoConverter = errors.New("btcore: no converter")
)

// LogicError reports a programming mistake, such as converting text for a
// type that has no registered converter. It is used as a panic value, and
// returned by ToStr.
type LogicError struct {
	Msg string
	Err error
}

func (e *LogicError) Error() string { return e.Msg }

func (e *LogicError) Unwrap() error { return e.Err }

// RuntimeError reports an invalid schema detected while declaring ports or
// registering node types. It is used as a panic value.
type RuntimeError struct {
	Msg string
}

func (e *RuntimeError) Error() string { return e.Msg }

// ConversionError describes text that could not be converted to Type.
type ConversionError struct {
	Type reflect.Type
	Text string
	Err  error
}

func (e *ConversionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("cannot convert %q to [%s]", e.Text, safeany.TypeName(e.Type))
	}
	return fmt.Sprintf("cannot convert %q to [%s]: %v", e.Text, safeany.TypeName(e.Type), e.Err)
}

func (e *ConversionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConversion}
	}
	return []error{ErrConversion, e.Err}
}

func conversionError(t reflect.Type, text string, err error) error {
	var ce *ConversionError
	if errors.As(err, &ce) {
		return err
	}
	return &ConversionError{Type: t, Text: text, Err: err}
}
