/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package catalog

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

// openForTest connects to the database named by PS_PG_DSN and skips
// otherwise.
func openForTest(t *testing.T) *Catalog {
	t.Helper()
	dsn := os.Getenv("PS_PG_DSN")
	if dsn == "" {
		t.Skip("PS_PG_DSN not set; skipping Postgres integration test")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	c, err := Open(ctx, dsn)
	if err != nil {
		t.Skipf("cannot open postgres: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestPublishListUnpublish(t *testing.T) {
	c := openForTest(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tag := "it-" + time.Now().UTC().Format("20060102150405.000000000")
	doc := []byte(`{"ar":"4:5","t":true,"pc":["` + tag + `"],"lg":["Telugu"],"bg":null}`)
	hash := ContentHash(doc)
	t.Cleanup(func() { _, _ = c.Unpublish(context.Background(), hash) })

	first, err := c.Publish(ctx, "Birthday card", doc)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if first.Version != 1 || first.Hash != hash || first.Tags[0] != tag {
		t.Fatalf("unexpected first publish %+v", first)
	}
	again, err := c.Publish(ctx, "Birthday card v2", doc)
	if err != nil {
		t.Fatalf("Publish again: %v", err)
	}
	if again.ID != first.ID || again.Version != 2 {
		t.Fatalf("republish should bump version on the same row: %+v", again)
	}

	list, err := c.List(ctx, tag)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Birthday card v2" || list[0].Languages[0] != "Telugu" {
		t.Fatalf("unexpected list %+v", list)
	}

	stored, err := c.Document(ctx, hash)
	if err != nil || len(stored) == 0 {
		t.Fatalf("Document: %v", err)
	}

	ok, err := c.Unpublish(ctx, hash)
	if err != nil || !ok {
		t.Fatalf("Unpublish = %v, %v", ok, err)
	}
	if _, err := c.Document(ctx, hash); !errors.Is(err, ErrNotPublished) {
		t.Fatalf("expected ErrNotPublished, got %v", err)
	}
	if _, err := c.Publish(ctx, " ", doc); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}
