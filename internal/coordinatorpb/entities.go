package coordinatorpb

import "fmt"

// The gateway-facing control RPC mirrors the state entities of the data
// model directly rather than inventing a parallel vocabulary, so these
// messages are thin wire shapes over internal/statemachine's types.

type Repository struct {
	Name string `protobuf:"bytes,1,opt,name=name,proto3" json:"name,omitempty"`
}

func (m *Repository) Reset()         { *m = Repository{} }
func (m *Repository) String() string { return fmt.Sprintf("%+v", *m) }
func (*Repository) ProtoMessage()    {}

type ExtractorBinding struct {
	Repository string            `protobuf:"bytes,1,opt,name=repository,proto3" json:"repository,omitempty"`
	Name       string            `protobuf:"bytes,2,opt,name=name,proto3" json:"name,omitempty"`
	Extractor  string            `protobuf:"bytes,3,opt,name=extractor,proto3" json:"extractor,omitempty"`
	Filters    map[string]string `protobuf:"bytes,4,rep,name=filters,proto3" json:"filters,omitempty" protobuf_key:"bytes,1,opt,name=key,proto3" protobuf_val:"bytes,2,opt,name=value,proto3"`
}

func (m *ExtractorBinding) Reset()         { *m = ExtractorBinding{} }
func (m *ExtractorBinding) String() string { return fmt.Sprintf("%+v", *m) }
func (*ExtractorBinding) ProtoMessage()    {}

type ContentMetadata struct {
	ID         string            `protobuf:"bytes,1,opt,name=id,proto3" json:"id,omitempty"`
	Repository string            `protobuf:"bytes,2,opt,name=repository,proto3" json:"repository,omitempty"`
	ParentID   string            `protobuf:"bytes,3,opt,name=parent_id,json=parentId,proto3" json:"parent_id,omitempty"`
	Source     string            `protobuf:"bytes,4,opt,name=source,proto3" json:"source,omitempty"`
	Labels     map[string]string `protobuf:"bytes,5,rep,name=labels,proto3" json:"labels,omitempty" protobuf_key:"bytes,1,opt,name=key,proto3" protobuf_val:"bytes,2,opt,name=value,proto3"`
	CreatedAt  int64             `protobuf:"varint,6,opt,name=created_at,json=createdAt,proto3" json:"created_at,omitempty"`
}

func (m *ContentMetadata) Reset()         { *m = ContentMetadata{} }
func (m *ContentMetadata) String() string { return fmt.Sprintf("%+v", *m) }
func (*ContentMetadata) ProtoMessage()    {}

type Index struct {
	ID         string `protobuf:"bytes,1,opt,name=id,proto3" json:"id,omitempty"`
	Repository string `protobuf:"bytes,2,opt,name=repository,proto3" json:"repository,omitempty"`
	Extractor  string `protobuf:"bytes,3,opt,name=extractor,proto3" json:"extractor,omitempty"`
	Name       string `protobuf:"bytes,4,opt,name=name,proto3" json:"name,omitempty"`
	Schema     string `protobuf:"bytes,5,opt,name=schema,proto3" json:"schema,omitempty"`
}

func (m *Index) Reset()         { *m = Index{} }
func (m *Index) String() string { return fmt.Sprintf("%+v", *m) }
func (*Index) ProtoMessage()    {}

type CreateRepositoryRequest struct {
	Name string `protobuf:"bytes,1,opt,name=name,proto3" json:"name,omitempty"`
}

func (m *CreateRepositoryRequest) Reset()         { *m = CreateRepositoryRequest{} }
func (m *CreateRepositoryRequest) String() string { return fmt.Sprintf("%+v", *m) }
func (*CreateRepositoryRequest) ProtoMessage()    {}

type CreateRepositoryResponse struct{}

func (m *CreateRepositoryResponse) Reset()         { *m = CreateRepositoryResponse{} }
func (m *CreateRepositoryResponse) String() string { return fmt.Sprintf("%+v", *m) }
func (*CreateRepositoryResponse) ProtoMessage()    {}

type ListRepositoriesRequest struct{}

func (m *ListRepositoriesRequest) Reset()         { *m = ListRepositoriesRequest{} }
func (m *ListRepositoriesRequest) String() string { return fmt.Sprintf("%+v", *m) }
func (*ListRepositoriesRequest) ProtoMessage()    {}

type ListRepositoriesResponse struct {
	Repositories []*Repository `protobuf:"bytes,1,rep,name=repositories,proto3" json:"repositories,omitempty"`
}

func (m *ListRepositoriesResponse) Reset()         { *m = ListRepositoriesResponse{} }
func (m *ListRepositoriesResponse) String() string { return fmt.Sprintf("%+v", *m) }
func (*ListRepositoriesResponse) ProtoMessage()    {}

type CreateBindingRequest struct {
	Binding *ExtractorBinding `protobuf:"bytes,1,opt,name=binding,proto3" json:"binding,omitempty"`
}

func (m *CreateBindingRequest) Reset()         { *m = CreateBindingRequest{} }
func (m *CreateBindingRequest) String() string { return fmt.Sprintf("%+v", *m) }
func (*CreateBindingRequest) ProtoMessage()    {}

type CreateBindingResponse struct{}

func (m *CreateBindingResponse) Reset()         { *m = CreateBindingResponse{} }
func (m *CreateBindingResponse) String() string { return fmt.Sprintf("%+v", *m) }
func (*CreateBindingResponse) ProtoMessage()    {}

type ListBindingsRequest struct {
	Repository string `protobuf:"bytes,1,opt,name=repository,proto3" json:"repository,omitempty"`
}

func (m *ListBindingsRequest) Reset()         { *m = ListBindingsRequest{} }
func (m *ListBindingsRequest) String() string { return fmt.Sprintf("%+v", *m) }
func (*ListBindingsRequest) ProtoMessage()    {}

type ListBindingsResponse struct {
	Bindings []*ExtractorBinding `protobuf:"bytes,1,rep,name=bindings,proto3" json:"bindings,omitempty"`
}

func (m *ListBindingsResponse) Reset()         { *m = ListBindingsResponse{} }
func (m *ListBindingsResponse) String() string { return fmt.Sprintf("%+v", *m) }
func (*ListBindingsResponse) ProtoMessage()    {}

type CreateContentRequest struct {
	Content *ContentMetadata `protobuf:"bytes,1,opt,name=content,proto3" json:"content,omitempty"`
}

func (m *CreateContentRequest) Reset()         { *m = CreateContentRequest{} }
func (m *CreateContentRequest) String() string { return fmt.Sprintf("%+v", *m) }
func (*CreateContentRequest) ProtoMessage()    {}

type CreateContentResponse struct {
	ID string `protobuf:"bytes,1,opt,name=id,proto3" json:"id,omitempty"`
}

func (m *CreateContentResponse) Reset()         { *m = CreateContentResponse{} }
func (m *CreateContentResponse) String() string { return fmt.Sprintf("%+v", *m) }
func (*CreateContentResponse) ProtoMessage()    {}

type ListContentRequest struct {
	Repository string `protobuf:"bytes,1,opt,name=repository,proto3" json:"repository,omitempty"`
}

func (m *ListContentRequest) Reset()         { *m = ListContentRequest{} }
func (m *ListContentRequest) String() string { return fmt.Sprintf("%+v", *m) }
func (*ListContentRequest) ProtoMessage()    {}

type ListContentResponse struct {
	Content []*ContentMetadata `protobuf:"bytes,1,rep,name=content,proto3" json:"content,omitempty"`
}

func (m *ListContentResponse) Reset()         { *m = ListContentResponse{} }
func (m *ListContentResponse) String() string { return fmt.Sprintf("%+v", *m) }
func (*ListContentResponse) ProtoMessage()    {}

type CreateIndexRequest struct {
	Index *Index `protobuf:"bytes,1,opt,name=index,proto3" json:"index,omitempty"`
}

func (m *CreateIndexRequest) Reset()         { *m = CreateIndexRequest{} }
func (m *CreateIndexRequest) String() string { return fmt.Sprintf("%+v", *m) }
func (*CreateIndexRequest) ProtoMessage()    {}

type CreateIndexResponse struct {
	ID string `protobuf:"bytes,1,opt,name=id,proto3" json:"id,omitempty"`
}

func (m *CreateIndexResponse) Reset()         { *m = CreateIndexResponse{} }
func (m *CreateIndexResponse) String() string { return fmt.Sprintf("%+v", *m) }
func (*CreateIndexResponse) ProtoMessage()    {}

type ListIndexesRequest struct {
	Repository string `protobuf:"bytes,1,opt,name=repository,proto3" json:"repository,omitempty"`
}

func (m *ListIndexesRequest) Reset()         { *m = ListIndexesRequest{} }
func (m *ListIndexesRequest) String() string { return fmt.Sprintf("%+v", *m) }
func (*ListIndexesRequest) ProtoMessage()    {}

type ListIndexesResponse struct {
	Indexes []*Index `protobuf:"bytes,1,rep,name=indexes,proto3" json:"indexes,omitempty"`
}

func (m *ListIndexesResponse) Reset()         { *m = ListIndexesResponse{} }
func (m *ListIndexesResponse) String() string { return fmt.Sprintf("%+v", *m) }
func (*ListIndexesResponse) ProtoMessage()    {}

type ListExecutorsRequest struct{}

func (m *ListExecutorsRequest) Reset()         { *m = ListExecutorsRequest{} }
func (m *ListExecutorsRequest) String() string { return fmt.Sprintf("%+v", *m) }
func (*ListExecutorsRequest) ProtoMessage()    {}

type Executor struct {
	ExecutorID    string `protobuf:"bytes,1,opt,name=executor_id,json=executorId,proto3" json:"executor_id,omitempty"`
	Addr          string `protobuf:"bytes,2,opt,name=addr,proto3" json:"addr,omitempty"`
	Extractor     string `protobuf:"bytes,3,opt,name=extractor,proto3" json:"extractor,omitempty"`
	LastSeenSecs  int64  `protobuf:"varint,4,opt,name=last_seen_secs,json=lastSeenSecs,proto3" json:"last_seen_secs,omitempty"`
}

func (m *Executor) Reset()         { *m = Executor{} }
func (m *Executor) String() string { return fmt.Sprintf("%+v", *m) }
func (*Executor) ProtoMessage()    {}

type ListExecutorsResponse struct {
	Executors []*Executor `protobuf:"bytes,1,rep,name=executors,proto3" json:"executors,omitempty"`
}

func (m *ListExecutorsResponse) Reset()         { *m = ListExecutorsResponse{} }
func (m *ListExecutorsResponse) String() string { return fmt.Sprintf("%+v", *m) }
func (*ListExecutorsResponse) ProtoMessage()    {}

type ListTasksRequest struct {
	Repository string `protobuf:"bytes,1,opt,name=repository,proto3" json:"repository,omitempty"`
}

func (m *ListTasksRequest) Reset()         { *m = ListTasksRequest{} }
func (m *ListTasksRequest) String() string { return fmt.Sprintf("%+v", *m) }
func (*ListTasksRequest) ProtoMessage()    {}

type ListTasksResponse struct {
	Tasks []*Task `protobuf:"bytes,1,rep,name=tasks,proto3" json:"tasks,omitempty"`
}

func (m *ListTasksResponse) Reset()         { *m = ListTasksResponse{} }
func (m *ListTasksResponse) String() string { return fmt.Sprintf("%+v", *m) }
func (*ListTasksResponse) ProtoMessage()    {}
