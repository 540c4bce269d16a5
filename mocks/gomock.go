package mocks

//go:generate mockgen -source=./../client/modules/state/state.go -destination=./clientMocks/state_mock.go -package=clientMocks
//go:generate mockgen -source=./../storage/types.go -destination=./storageMocks/storage_mock.go -package=storageMocks
//go:generate mockgen -source=./../docapi/docapi.go -destination=./docapiMocks/docapi_mock.go -package=docapiMocks
//go:generate mockgen -source=./../client/repositories/session/session.go -destination=./repoMocks/session_mock.go -package=repoMocks
