// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"errors"
)

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ConsistencyError GenericError
type ExistsError GenericError
type InvalidError GenericError
type LengthError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type RecordError GenericError

// common errors - keep in alphabetic order
var (
	ErrAlreadyInitialised           = ExistsError("already initialised")
	ErrAttributeIndexOutOfRange     = InvalidError("attribute index out of range")
	ErrCannotDecodeAccount          = InvalidError("cannot decode account")
	ErrCertificateFileAlreadyExists = ExistsError("certificate file already exists")
	ErrCertificateFileNotFound      = NotFoundError("certificate file not found")
	ErrChecksumMismatch             = InvalidError("checksum mismatch")
	ErrCommitmentDigestUnavailable  = NotFoundError("commitment digest unavailable")
	ErrCommitmentNotFound           = NotFoundError("commitment not found")
	ErrConfigurationNotTable        = InvalidError("configuration did not return a table")
	ErrConsistencyViolation         = ConsistencyError("consistency violation: server history was altered")
	ErrDatabaseIsNotSet             = ProcessError("database is not set")
	ErrEmptyCommitmentList          = InvalidError("empty commitment index list")
	ErrIncorrectChain               = InvalidError("ledger hash chain is broken")
	ErrInvalidAccount               = InvalidError("invalid account")
	ErrInvalidAggregationProof      = InvalidError("invalid aggregation proof")
	ErrInvalidAmount                = RecordError("invalid amount")
	ErrInvalidCommitInterval        = InvalidError("invalid commit interval")
	ErrInvalidCommitmentRange       = InvalidError("invalid commitment range")
	ErrInvalidConsistencyProof      = InvalidError("invalid consistency proof")
	ErrInvalidCount                 = InvalidError("invalid count")
	ErrInvalidFingerprint           = InvalidError("invalid certificate fingerprint")
	ErrInvalidGoodType              = RecordError("invalid good type")
	ErrInvalidIPAddress             = InvalidError("invalid IP address")
	ErrInvalidKeyLength             = InvalidError("invalid key length")
	ErrInvalidKeyType               = InvalidError("invalid key type")
	ErrInvalidNetAmount             = RecordError("invalid net amount")
	ErrInvalidPadding               = InvalidError("non-zero padding bits")
	ErrInvalidPortNumber            = InvalidError("invalid port number")
	ErrInvalidProofType             = InvalidError("invalid proof type")
	ErrInvalidQueryProof            = InvalidError("invalid query proof")
	ErrInvalidRecordIndex           = InvalidError("invalid record index")
	ErrInvalidRecordProof           = InvalidError("invalid record proof")
	ErrInvalidSignature             = InvalidError("invalid signature")
	ErrInvalidStructPointer         = InvalidError("invalid struct pointer")
	ErrInvalidTreeStructure         = InvalidError("invalid tree structure")
	ErrKeyFileAlreadyExists         = ExistsError("private key file already exists")
	ErrKeyFileNotFound              = NotFoundError("private key file not found")
	ErrLeafHasNoChildren            = InvalidError("leaf aggregation has no children")
	ErrMissingParameters            = InvalidError("missing parameters")
	ErrMissingTreeData              = NotFoundError("missing tree data")
	ErrNotInitialised               = NotFoundError("not initialised")
	ErrNotPrivateKey                = InvalidError("not a private key")
	ErrNotPublicKey                 = InvalidError("not a public key")
	ErrNoVerifiedCommitment         = NotFoundError("no verified commitment")
	ErrRateLimiting                 = InvalidError("rate limiting")
	ErrRecordNotCommitted           = NotFoundError("record has not been committed yet")
	ErrServerDistrusted             = ConsistencyError("server is distrusted after a consistency violation")
	ErrShapeMismatch                = LengthError("attribute vectors have different lengths")
	ErrSignatureMissing             = RecordError("signature is missing")
	ErrSignatureTooLong             = RecordError("signature too long")
	ErrStatementNotFound            = NotFoundError("ledger statement not found")
	ErrTrailingData                 = RecordError("trailing data after record")
	ErrTruncated                    = LengthError("data is truncated")
	ErrUnexpectedDigestLength       = LengthError("unexpected digest length")
	ErrUnknownRecordType            = RecordError("unknown record type")
	ErrVarintOverflow               = LengthError("varint overflow")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ConsistencyError) Error() string { return string(e) }
func (e ExistsError) Error() string      { return string(e) }
func (e InvalidError) Error() string     { return string(e) }
func (e LengthError) Error() string      { return string(e) }
func (e NotFoundError) Error() string    { return string(e) }
func (e ProcessError) Error() string     { return string(e) }
func (e RecordError) Error() string      { return string(e) }

// determine the class of an error
// wrapped errors are unwrapped until a class is found
func IsErrConsistency(e error) bool {
	var t ConsistencyError
	return errors.As(e, &t)
}
func IsErrExists(e error) bool {
	var t ExistsError
	return errors.As(e, &t)
}
func IsErrInvalid(e error) bool {
	var t InvalidError
	return errors.As(e, &t)
}
func IsErrLength(e error) bool {
	var t LengthError
	return errors.As(e, &t)
}
func IsErrNotFound(e error) bool {
	var t NotFoundError
	return errors.As(e, &t)
}
func IsErrProcess(e error) bool {
	var t ProcessError
	return errors.As(e, &t)
}
func IsErrRecord(e error) bool {
	var t RecordError
	return errors.As(e, &t)
}
