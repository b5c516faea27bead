package xerr

import "errors"

var (
	// 通用错误
	ErrSuccess        = errors.New("操作成功")
	ErrInternalServer = errors.New("服务器内部错误")

	// 客户端请求错误
	ErrInvalidParams    = errors.New("无效的请求参数")
	ErrValidationFailed = errors.New("参数验证失败")
	ErrFileTooLarge     = errors.New("上传文件过大，超出限制")
	ErrFileEmpty        = errors.New("上传文件内容为空")
	ErrFileTypeInvalid  = errors.New("文件类型不支持")
	ErrFileNameInvalid  = errors.New("文件名包含非法字符")
	ErrBatchCapExceeded = errors.New("批次文件数超出上限")
	ErrHashMismatch     = errors.New("文件哈希值校验失败")

	// 认证与授权错误
	ErrUnauthorized       = errors.New("用户未授权")
	ErrTokenInvalid       = errors.New("认证 Token 无效或已过期")
	ErrInvalidCredentials = errors.New("用户名或密码不正确")
	ErrUserAlreadyExists  = errors.New("该用户名已被注册")
	ErrEmailAlreadyExists = errors.New("邮箱已被注册")

	// 权限错误
	ErrForbidden          = errors.New("禁止访问")
	ErrPermissionDenied   = errors.New("您没有操作此资源的权限")
	ErrShareLinkExpired   = errors.New("上传链接已过期")
	ErrShareLinkRevoked   = errors.New("上传链接已被撤销")
	ErrUploadDisabled     = errors.New("该图库已关闭访客上传")
	ErrShareLinkWrongRole = errors.New("上传链接角色与该接口不匹配")

	// 资源未找到错误
	ErrUserNotFound      = errors.New("用户不存在")
	ErrGalleryNotFound   = errors.New("图库不存在")
	ErrSectionNotFound   = errors.New("图库分区不存在")
	ErrMediaNotFound     = errors.New("媒体文件不存在")
	ErrShareLinkNotFound = errors.New("上传链接不存在或已失效")

	// 业务逻辑冲突
	ErrDuplicateMedia     = errors.New("相同的媒体文件已存在")
	ErrShareAlreadyExists = errors.New("该图库已存在有效的上传链接")

	// 数据库与外部服务错误
	ErrDatabaseError = errors.New("数据库操作失败")
	ErrStorageError  = errors.New("存储服务操作失败")
	ErrMQError       = errors.New("消息队列操作失败")
	ErrSearchError   = errors.New("搜索服务操作失败")
)
