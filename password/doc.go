// Package password hashes and verifies login credentials with argon2id,
// encoded in PHC string format. A slow, salted, memory-hard hash is a
// requirement of the login path — do not substitute a fast general-purpose
// digest here.
package password
