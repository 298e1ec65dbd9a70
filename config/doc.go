// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config holds the launcher configuration.
//
// Values are layered: DefaultConfig, then an optional YAML file, then
// LAUNCHPAD_* environment variables.
//
//	data_dir: ~/.launchpad/db
//	manifest_dir: ~/.launchpad/apps
//	launch_delay: 1s
//	pool_size: 2
//	log_level: info
//	watch_debounce: 100ms
//	shortcut_host: true
//
// The matching variables are LAUNCHPAD_DATA_DIR, LAUNCHPAD_MANIFEST_DIR,
// LAUNCHPAD_LAUNCH_DELAY, LAUNCHPAD_POOL_SIZE, LAUNCHPAD_LOG_LEVEL,
// LAUNCHPAD_WATCH_DEBOUNCE, LAUNCHPAD_SHORTCUT_HOST and LAUNCHPAD_IN_MEMORY.
package config
