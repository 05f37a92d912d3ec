// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config loads the gpush YAML configuration.
//
// The file lists command specifications in phases:
//
//	pre_run:            # run in order, stop at the first failure
//	parallel_run:       # run at the same time
//	post_run:           # run in order after parallel_run
//	post_run_success:   # run in order if every parallel_run command passed
//	post_run_failure:   # run in order if any parallel_run command failed
//	command_definitions: # named specs referenced by string entries in parallel_run
//
// The file is gpushrc.yml or gpushrc.yaml in the working directory unless a location is given.
// A location may be a local path or any URL supported by go-getter.
package config
