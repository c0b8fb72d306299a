/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package storage persists poster sessions and the local template library.
// Session files are JSON documents written atomically with timestamped
// backups next to them; a corrupt file falls back to the newest backup.
// The library is a SQLite database (modernc.org/sqlite, WAL mode) listing
// exported templates with FTS5 search over names and tags. It is derived
// data and can be deleted at any time.
package storage
