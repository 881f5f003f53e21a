/*
Package card implements client-side payment card checks: network detection,
the Luhn checksum, as-you-type formatting and the per-field validation rules
of the card form.

All functions are pure. Validation failures are reported as *Error values
carrying a stable Reason and the human-readable message shown under the field.
*/
package card
