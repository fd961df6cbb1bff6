// Package recbole models the configuration surface of the RecBole framework.
//
// The package never reimplements any training or evaluation logic. It knows
// which datasets and models the project supports, assembles the ordered list
// of YAML configuration files handed to the framework, and validates the few
// fields the submission tooling depends on while passing everything else
// through untouched.
package recbole
