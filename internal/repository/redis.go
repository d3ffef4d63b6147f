package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisPersonRepository stores each record as a hash document.
//
// Layout, for KeyPrefix "phonebook":
//
//	phonebook:person:<id>    hash {name, number}
//	phonebook:persons        sorted set of ids, scored by insertion sequence
//	phonebook:persons:seq    insertion sequence counter
type RedisPersonRepository struct {
	client redis.UniversalClient
	prefix string
}

var _ PersonRepository = (*RedisPersonRepository)(nil)

func NewRedisPersonRepository(client redis.UniversalClient, keyPrefix string) *RedisPersonRepository {
	return &RedisPersonRepository{client: client, prefix: keyPrefix}
}

func (r *RedisPersonRepository) personKey(id string) string { return r.prefix + ":person:" + id }
func (r *RedisPersonRepository) indexKey() string           { return r.prefix + ":persons" }
func (r *RedisPersonRepository) seqKey() string             { return r.prefix + ":persons:seq" }

func (r *RedisPersonRepository) FindAll(ctx context.Context) ([]Person, error) {
	ids, err := r.client.ZRange(ctx, r.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list person ids: %w", err)
	}

	persons := make([]Person, 0, len(ids))
	if len(ids) == 0 {
		return persons, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, r.personKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load persons: %w", err)
	}

	for i, cmd := range cmds {
		doc := cmd.Val()
		// Deleted between ZRANGE and HGETALL.
		if len(doc) == 0 {
			continue
		}
		persons = append(persons, Person{ID: ids[i], Name: doc["name"], Number: doc["number"]})
	}
	return persons, nil
}

func (r *RedisPersonRepository) Count(ctx context.Context) (int, error) {
	n, err := r.client.ZCard(ctx, r.indexKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("count persons: %w", err)
	}
	return int(n), nil
}

func (r *RedisPersonRepository) FindByID(ctx context.Context, id string) (*Person, error) {
	id, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	doc, err := r.client.HGetAll(ctx, r.personKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("find person: %w", err)
	}
	if len(doc) == 0 {
		return nil, ErrNotFound
	}
	return &Person{ID: id, Name: doc["name"], Number: doc["number"]}, nil
}

func (r *RedisPersonRepository) Insert(ctx context.Context, fields PersonFields) (*Person, error) {
	if err := checkSchema(fields); err != nil {
		return nil, err
	}

	seq, err := r.client.Incr(ctx, r.seqKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("next person sequence: %w", err)
	}

	p := Person{ID: newID(), Name: fields.Name, Number: fields.Number}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, r.personKey(p.ID), "name", p.Name, "number", p.Number)
		pipe.ZAdd(ctx, r.indexKey(), redis.Z{Score: float64(seq), Member: p.ID})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("insert person: %w", err)
	}
	return &p, nil
}

func (r *RedisPersonRepository) UpdateByID(ctx context.Context, id string, fields PersonFields) (*Person, error) {
	id, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	if err := checkSchema(fields); err != nil {
		return nil, err
	}

	key := r.personKey(id)
	// WATCH keeps a concurrent delete from being undone by the HSET.
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, "name", fields.Name, "number", fields.Number)
			return nil
		})
		return err
	}, key)
	switch {
	case err == nil:
		return &Person{ID: id, Name: fields.Name, Number: fields.Number}, nil
	case errors.Is(err, ErrNotFound):
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("update person: %w", err)
	}
}

func (r *RedisPersonRepository) DeleteByID(ctx context.Context, id string) error {
	id, err := ParseID(id)
	if err != nil {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.personKey(id))
		pipe.ZRem(ctx, r.indexKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	return nil
}
