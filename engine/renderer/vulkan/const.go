package vulkan

/**
 * @brief Max number of frames that may be recorded while earlier ones are
 * still executing on the GPU.
 */
const MaxFramesInFlight uint32 = 2

/**
 * @brief Size in bytes of the per-draw push constant block (a single 4x4
 * float matrix).
 */
const PushConstantModelSize uint32 = 64
