package xerr

// 定义了统一的业务错误码
const (
	SuccessCode = 20000 // 通用成功码

	// --- 客户端请求错误系列 (400xx) ---
	InvalidParamsCode    = 40000 // 无效的请求参数
	ValidationFailedCode = 40001 // 参数验证失败
	FileTooLargeCode     = 40002 // 文件超出大小上限
	FileEmptyCode        = 40003 // 文件内容为空
	FileTypeInvalidCode  = 40004 // 文件类型不支持（非图片/视频）
	FileNameInvalidCode  = 40005 // 文件名无效
	BatchCapExceededCode = 40006 // 批次文件数超出上限
	HashMismatchCode     = 40007 // 文件Hash不匹配

	// --- 认证与授权错误系列 (401xx) ---
	UnauthorizedCode       = 40100 // 通用未授权
	TokenInvalidCode       = 40101 // Token 无效或过期
	InvalidCredentialsCode = 40102 // 用户名或密码错误

	// --- 权限错误系列 (403xx) ---
	ForbiddenCode          = 40300 // 通用无权限
	PermissionDeniedCode   = 40301 // 权限不足 (细分)
	ShareLinkExpiredCode   = 40302 // 分享上传链接已过期
	ShareLinkRevokedCode   = 40303 // 分享上传链接已被撤销
	UploadDisabledCode     = 40304 // 该图库已关闭访客上传
	ShareLinkWrongRoleCode = 40305 // 链接角色与接口不匹配

	// --- 资源未找到错误系列 (404xx) ---
	NotFoundCode          = 40400 // 通用资源未找到
	UserNotFoundCode      = 40401 // 用户不存在
	GalleryNotFoundCode   = 40402 // 图库不存在
	SectionNotFoundCode   = 40403 // 图库分区不存在
	MediaNotFoundCode     = 40404 // 媒体文件不存在
	ShareLinkNotFoundCode = 40405 // 分享上传链接不存在

	// --- 业务逻辑冲突系列 (409xx) ---
	UserAlreadyExistsCode  = 40900 // 用户名已存在
	EmailAlreadyExistsCode = 40901 // 邮箱已存在
	DuplicateMediaCode     = 40902 // 媒体文件已存在（服务端权威查重）
	ShareAlreadyExistsCode = 40903 // 分享链接已存在

	// --- 服务器内部错误系列 (500xx) ---
	InternalServerErrorCode = 50000 // 服务器内部通用错误
	DatabaseErrorCode       = 50001 // 数据库操作失败
	StorageErrorCode        = 50002 // 存储服务操作失败（如MinIO）
	MQErrorCode             = 50003 // 消息队列操作失败
	SearchErrorCode         = 50004 // 搜索服务操作失败
)
