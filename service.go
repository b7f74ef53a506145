package crop

import "go.uber.org/zap"

/*
Entry point for building queries. Immutable after construction and safe for
concurrent use; builders obtained from it are not.
*/
type Service struct {
	db  Querier
	log *zap.Logger
}

type Option func(*Service)

// Generated SQL is logged at debug level. The default logger discards output.
func WithLogger(log *zap.Logger) Option {
	return func(self *Service) {
		if log != nil {
			self.log = log
		}
	}
}

func NewService(db Querier, opts ...Option) *Service {
	self := &Service{db: db, log: zap.NewNop()}
	for _, opt := range opts {
		opt(self)
	}
	return self
}

// Opens a root builder without ordering or paging.
func Create[E, S any](svc *Service, entity *Entity[E], search S) *Builder[E, S] {
	return CreateWith(svc, entity, search, nil, Page{})
}

// Opens a root builder for the entity, filtered by criteria taken from `search`.
func CreateWith[E, S any](svc *Service, entity *Entity[E], search S, order Order, page Page) *Builder[E, S] {
	q := &query[E, S]{
		svc:    svc,
		entity: entity,
		search: search,
		order:  order,
		page:   page,
		from:   NewFrom(entity.Table),
	}

	root := &Builder[E, S]{q: q, path: (*From).Root}
	root.node = root.path(q.from)
	q.root = root
	return root
}
